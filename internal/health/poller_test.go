package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/pkg/models"

	"github.com/stretchr/testify/require"
)

type scripted struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (s *scripted) Health(context.Context) (*models.HealthStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.results) && s.results[i] != nil {
		return nil, s.results[i]
	}
	return &models.HealthStatus{Status: "ok", Database: "connected"}, nil
}

func TestCheckReportsChangesOnly(t *testing.T) {
	checker := &scripted{results: []error{nil, nil, &gateway.TransportError{Endpoint: "health", Err: errors.New("refused")}, nil}}
	p := NewPoller(checker, time.Minute, nil, nil)

	var seen []Status
	p.OnChange(func(st Status) { seen = append(seen, st) })

	_, ok := p.Last()
	require.False(t, ok)

	ctx := context.Background()
	require.True(t, p.Check(ctx).Up)
	require.True(t, p.Check(ctx).Up)
	down := p.Check(ctx)
	require.False(t, down.Up)
	require.Equal(t, "unreachable", down.Status)
	require.Equal(t, "gateway unreachable", down.Detail)
	require.True(t, p.Check(ctx).Up)

	require.Len(t, seen, 3)
	last, ok := p.Last()
	require.True(t, ok)
	require.Equal(t, "connected", last.Database)
}

func TestRunStopsOnCancel(t *testing.T) {
	checker := &scripted{}
	p := NewPoller(checker, 10*time.Millisecond, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		checker.mu.Lock()
		defer checker.mu.Unlock()
		return checker.calls >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
