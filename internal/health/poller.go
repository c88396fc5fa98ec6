// Package health polls the gateway backend for reachability.
package health

import (
	"context"
	"sync"
	"time"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/metrics"
	"wpconn-dashboard/pkg/models"

	"go.uber.org/zap"
)

type Checker interface {
	Health(ctx context.Context) (*models.HealthStatus, error)
}

// Status is the outcome of one reachability check.
type Status struct {
	Up        bool      `json:"up"`
	Status    string    `json:"status"`
	Database  string    `json:"database,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

type Poller struct {
	checker  Checker
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu       sync.RWMutex
	last     Status
	checked  bool
	onChange []func(Status)
}

func NewPoller(checker Checker, interval time.Duration, logger *zap.Logger, m *metrics.Metrics) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := 10 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &Poller{
		checker:  checker,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With(zap.String("component", "health")),
		metrics:  m,
	}
}

// OnChange registers fn to run whenever the up/down state or status text
// changes, and after the first check.
func (p *Poller) OnChange(fn func(Status)) {
	p.mu.Lock()
	p.onChange = append(p.onChange, fn)
	p.mu.Unlock()
}

// Run checks immediately, then every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check performs one reachability check and records its result.
func (p *Poller) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	st := Status{CheckedAt: time.Now()}
	res, err := p.checker.Health(ctx)
	switch {
	case err != nil:
		st.Status = "unreachable"
		st.Detail = gateway.Detail(err)
	default:
		st.Up = res.OK()
		st.Status = res.Status
		st.Database = res.Database
	}

	if p.metrics != nil {
		if st.Up {
			p.metrics.BackendUp.Set(1)
		} else {
			p.metrics.BackendUp.Set(0)
		}
	}

	p.mu.Lock()
	changed := !p.checked || p.last.Up != st.Up || p.last.Status != st.Status
	p.last = st
	p.checked = true
	hooks := append([]func(Status){}, p.onChange...)
	p.mu.Unlock()

	if changed {
		if st.Up {
			p.logger.Info("gateway reachable", zap.String("status", st.Status))
		} else {
			p.logger.Warn("gateway not healthy", zap.String("status", st.Status), zap.String("detail", st.Detail))
		}
		for _, fn := range hooks {
			fn(st)
		}
	}
	return st
}

// Last returns the most recent result; ok is false before the first check.
func (p *Poller) Last() (Status, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.checked
}
