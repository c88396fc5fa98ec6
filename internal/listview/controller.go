package listview

import "context"

// Controller drives a State with a request-scoped Fetcher.
type Controller[T any, F any] struct {
	Fetch Fetcher[T, F]
}

func NewController[T any, F any](fetch Fetcher[T, F]) Controller[T, F] {
	return Controller[T, F]{Fetch: fetch}
}

// Mount fetches the first page the first time a view is shown. Later
// calls leave the state as it is and return fetched=false.
func (c Controller[T, F]) Mount(ctx context.Context, s *State[T, F]) (fetched bool, err error) {
	if s.Mounted() {
		return false, nil
	}
	return true, c.run(ctx, s, true, nil)
}

// Load refetches the current page with the current filter.
func (c Controller[T, F]) Load(ctx context.Context, s *State[T, F]) error {
	return c.run(ctx, s, true, nil)
}

func (c Controller[T, F]) GoTo(ctx context.Context, s *State[T, F], page int) error {
	return c.run(ctx, s, true, func() error {
		if page < 1 {
			return ErrInvalidPage
		}
		s.page = page
		return nil
	})
}

func (c Controller[T, F]) Next(ctx context.Context, s *State[T, F]) error {
	return c.run(ctx, s, true, func() error {
		if len(s.rows) < s.pageSize {
			return ErrLastPage
		}
		s.page++
		return nil
	})
}

func (c Controller[T, F]) Prev(ctx context.Context, s *State[T, F]) error {
	return c.run(ctx, s, true, func() error {
		if s.page <= 1 {
			return ErrFirstPage
		}
		s.page--
		return nil
	})
}

// Search replaces the filter and restarts from page 1.
func (c Controller[T, F]) Search(ctx context.Context, s *State[T, F], filter F) error {
	return c.run(ctx, s, true, func() error {
		s.filter = filter
		s.page = 1
		return nil
	})
}

// Refresh is the invalidation signal after a successful mutation. It
// supersedes any fetch still in flight.
func (c Controller[T, F]) Refresh(ctx context.Context, s *State[T, F]) error {
	return c.run(ctx, s, false, nil)
}

func (c Controller[T, F]) run(ctx context.Context, s *State[T, F], guard bool, apply func() error) error {
	ticket, err := s.begin(guard, apply)
	if err != nil {
		return err
	}
	rows, err := c.Fetch(ctx, ticket.filter, ticket.limit, ticket.offset)
	return s.finish(ctx, ticket, rows, err)
}
