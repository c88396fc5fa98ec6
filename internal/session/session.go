// Package session keeps operator sessions and gates dashboard routes.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Identity is who the operator is, as established at login.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// Session is the explicit application context for one logged-in operator.
type Session struct {
	ID string
	Identity
	APIKey      string
	TenantScope string // selected tenant/client id, empty for all
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Store persists sessions across restarts.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Prune removes sessions that expired before now.
	Prune(ctx context.Context, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
