// Package listview holds the state behind every paginated, filterable
// table in the dashboard.
//
// A State belongs to one session and one view (tenants, messages:phone,
// logs:errors, ...). A Controller binds a State to the backend call that
// fills it for the current request.
package listview

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrBusy        = errors.New("listview: a fetch is already in flight")
	ErrFirstPage   = errors.New("listview: already on the first page")
	ErrLastPage    = errors.New("listview: no further pages")
	ErrInvalidPage = errors.New("listview: page must be at least 1")
	ErrClosed      = errors.New("listview: view closed")
	// ErrDiscarded is returned when a fetch finished after a newer fetch
	// started, after the view was closed, or after its request went away.
	// The result was not applied.
	ErrDiscarded = errors.New("listview: result discarded")
)

// Fetcher loads one page of records.
type Fetcher[T any, F any] func(ctx context.Context, filter F, limit, offset int) ([]T, error)

// State is the per-view list state. Records are kept in backend order.
type State[T any, F any] struct {
	mu       sync.Mutex
	pageSize int
	key      func(T) string

	page     int
	filter   F
	rows     []T
	loading  bool
	mounted  bool
	closed   bool
	gen      uint64
	selected string
}

func NewState[T any, F any](pageSize int, key func(T) string, filter F) *State[T, F] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &State[T, F]{
		pageSize: pageSize,
		key:      key,
		page:     1,
		filter:   filter,
		rows:     []T{},
	}
}

// Snapshot is an immutable copy of a State for rendering.
type Snapshot[T any, F any] struct {
	Page     int
	PageSize int
	Filter   F
	Rows     []T
	Loading  bool
	HasPrev  bool
	HasNext  bool
	Selected *T
}

func (s *State[T, F]) Snapshot() Snapshot[T, F] {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]T, len(s.rows))
	copy(rows, s.rows)

	snap := Snapshot[T, F]{
		Page:     s.page,
		PageSize: s.pageSize,
		Filter:   s.filter,
		Rows:     rows,
		Loading:  s.loading,
		HasPrev:  s.hasPrev(),
		HasNext:  s.hasNext(),
	}
	if s.selected != "" {
		if row, ok := s.find(s.selected); ok {
			snap.Selected = &row
		}
	}
	return snap
}

func (s *State[T, F]) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *State[T, F]) Filter() F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *State[T, F]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *State[T, F]) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// HasPrev reports whether the previous-page control is enabled.
func (s *State[T, F]) HasPrev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPrev()
}

// HasNext reports whether the next-page control is enabled. There is no
// total count; a short page means the last page.
func (s *State[T, F]) HasNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasNext()
}

func (s *State[T, F]) hasPrev() bool {
	return s.page > 1 && !s.loading
}

func (s *State[T, F]) hasNext() bool {
	return len(s.rows) >= s.pageSize && !s.loading
}

// Find looks a record up in the current result set.
func (s *State[T, F]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *State[T, F]) find(id string) (T, bool) {
	for _, row := range s.rows {
		if s.key(row) == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Select opens the detail panel for a record already in the result set.
func (s *State[T, F]) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.find(id); !ok {
		return false
	}
	s.selected = id
	return true
}

func (s *State[T, F]) Deselect() {
	s.mu.Lock()
	s.selected = ""
	s.mu.Unlock()
}

// Close discards the state. In-flight results are dropped when they land.
func (s *State[T, F]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
	s.rows = nil
	s.selected = ""
}

type fetchTicket[F any] struct {
	gen    uint64
	filter F
	limit  int
	offset int
}

// begin validates and applies a trigger, then marks the state loading.
func (s *State[T, F]) begin(guard bool, apply func() error) (fetchTicket[F], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fetchTicket[F]{}, ErrClosed
	}
	if guard && s.loading {
		return fetchTicket[F]{}, ErrBusy
	}
	if apply != nil {
		if err := apply(); err != nil {
			return fetchTicket[F]{}, err
		}
	}

	s.gen++
	s.loading = true
	s.mounted = true
	return fetchTicket[F]{
		gen:    s.gen,
		filter: s.filter,
		limit:  s.pageSize,
		offset: (s.page - 1) * s.pageSize,
	}, nil
}

// finish applies a fetch result unless it has been superseded.
func (s *State[T, F]) finish(ctx context.Context, t fetchTicket[F], rows []T, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || t.gen != s.gen {
		return ErrDiscarded
	}
	s.loading = false
	if ctx.Err() != nil {
		return ErrDiscarded
	}
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	s.rows = rows
	if s.selected != "" {
		if _, ok := s.find(s.selected); !ok {
			s.selected = ""
		}
	}
	return nil
}
