// Package notify queues transient operator notifications per session.
// Notifications are shown once, on the next rendered page.
package notify

import (
	"sync"
	"time"

	"wpconn-dashboard/internal/metrics"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelLoading Level = "loading"
)

type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

// maxQueued bounds a session's queue when pages are never rendered.
const maxQueued = 20

type Center struct {
	mu      sync.Mutex
	queues  map[string][]Notification
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCenter(m *metrics.Metrics) *Center {
	return &Center{
		queues:  make(map[string][]Notification),
		metrics: m,
		now:     time.Now,
	}
}

func (c *Center) Success(sessionID, msg string) string {
	return c.Push(sessionID, LevelSuccess, msg)
}

func (c *Center) Error(sessionID, msg string) string {
	return c.Push(sessionID, LevelError, msg)
}

func (c *Center) Info(sessionID, msg string) string {
	return c.Push(sessionID, LevelInfo, msg)
}

// Loading pushes a "working" notification meant to be replaced later.
func (c *Center) Loading(sessionID, msg string) string {
	return c.Push(sessionID, LevelLoading, msg)
}

func (c *Center) Push(sessionID string, level Level, msg string) string {
	n := Notification{ID: uuid.NewString(), Level: level, Message: msg, CreatedAt: c.now()}

	c.mu.Lock()
	q := append(c.queues[sessionID], n)
	if len(q) > maxQueued {
		q = q[len(q)-maxQueued:]
	}
	c.queues[sessionID] = q
	c.mu.Unlock()

	c.count(level)
	return n.ID
}

// Replace swaps the notification with the given id in place. If it was
// already shown, the replacement is queued instead.
func (c *Center) Replace(sessionID, id string, level Level, msg string) {
	c.mu.Lock()
	q := c.queues[sessionID]
	replaced := false
	for i := range q {
		if q[i].ID == id {
			q[i].Level = level
			q[i].Message = msg
			q[i].CreatedAt = c.now()
			replaced = true
			break
		}
	}
	if !replaced {
		c.queues[sessionID] = append(q, Notification{ID: id, Level: level, Message: msg, CreatedAt: c.now()})
	}
	c.mu.Unlock()

	c.count(level)
}

// Drain returns and clears the session's pending notifications.
func (c *Center) Drain(sessionID string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queues[sessionID]
	delete(c.queues, sessionID)
	return q
}

// Pending returns a copy without clearing.
func (c *Center) Pending(sessionID string) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queues[sessionID]
	out := make([]Notification, len(q))
	copy(out, q)
	return out
}

func (c *Center) Drop(sessionID string) {
	c.mu.Lock()
	delete(c.queues, sessionID)
	c.mu.Unlock()
}

func (c *Center) count(level Level) {
	if c.metrics != nil {
		c.metrics.Notifications.WithLabelValues(string(level)).Inc()
	}
}
