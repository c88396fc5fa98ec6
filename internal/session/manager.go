package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"wpconn-dashboard/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const contextKey = "wpconn.session"

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Manager ties Sessions to browser cookies.
type Manager struct {
	store   Store
	cookie  string
	ttl     time.Duration
	secure  bool
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu    sync.Mutex
	onEnd []func(sessionID string)
}

func NewManager(store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "wpconn_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:   store,
		cookie:  opts.CookieName,
		ttl:     opts.TTL,
		secure:  opts.Secure,
		logger:  logger.With(zap.String("component", "session")),
		metrics: opts.Metrics,
		now:     time.Now,
	}
}

// OnEnd registers teardown run when a session ends (logout or expiry).
func (m *Manager) OnEnd(fn func(sessionID string)) {
	m.mu.Lock()
	m.onEnd = append(m.onEnd, fn)
	m.mu.Unlock()
}

// Rehydrate prunes expired sessions from the store at startup and reports
// how many persisted sessions remain usable.
func (m *Manager) Rehydrate(ctx context.Context) (int64, error) {
	pruned, err := m.store.Prune(ctx, m.now())
	if err != nil {
		return 0, err
	}
	n, err := m.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	m.logger.Info("sessions rehydrated", zap.Int64("active", n), zap.Int64("pruned", pruned))
	if m.metrics != nil {
		m.metrics.ActiveSessions.Set(float64(n))
	}
	return n, nil
}

// Start creates a session for ident and sets its cookie.
func (m *Manager) Start(c *gin.Context, ident Identity, apiKey, scope string) (*Session, error) {
	now := m.now()
	sess := &Session{
		ID:          uuid.NewString(),
		Identity:    ident,
		APIKey:      apiKey,
		TenantScope: scope,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	if err := m.store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	m.setCookie(c, sess.ID, int(m.ttl.Seconds()))
	c.Set(contextKey, sess)
	if m.metrics != nil {
		m.metrics.ActiveSessions.Inc()
	}
	m.logger.Info("session started", zap.String("email", ident.Email), zap.String("role", ident.Role))
	return sess, nil
}

// Current resolves the request's session, if any.
func (m *Manager) Current(c *gin.Context) (*Session, bool) {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess, true
		}
	}

	id, err := c.Cookie(m.cookie)
	if err != nil || id == "" {
		return nil, false
	}

	ctx := c.Request.Context()
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed loading session", zap.Error(err))
		}
		return nil, false
	}
	if sess.Expired(m.now()) {
		m.end(ctx, sess.ID)
		return nil, false
	}

	c.Set(contextKey, sess)
	return sess, true
}

// Update persists changes to a live session, such as the tenant scope.
func (m *Manager) Update(ctx context.Context, sess *Session) error {
	return m.store.Save(ctx, sess)
}

// End deletes the current session and clears its cookie.
func (m *Manager) End(c *gin.Context) {
	if sess, ok := m.Current(c); ok {
		m.end(c.Request.Context(), sess.ID)
		m.logger.Info("session ended", zap.String("email", sess.Email))
	}
	m.setCookie(c, "", -1)
}

func (m *Manager) end(ctx context.Context, id string) {
	if err := m.store.Delete(ctx, id); err != nil {
		m.logger.Warn("failed deleting session", zap.Error(err))
	}
	if m.metrics != nil {
		m.metrics.ActiveSessions.Dec()
	}

	m.mu.Lock()
	hooks := append([]func(string){}, m.onEnd...)
	m.mu.Unlock()
	for _, fn := range hooks {
		fn(id)
	}
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie, value, maxAge, "/", "", m.secure, true)
}

// Gate redirects requests without a session to loginPath before any
// handler runs. Requests asking for JSON get a 401 instead.
func (m *Manager) Gate(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := m.Current(c); ok {
			c.Next()
			return
		}
		if strings.Contains(c.GetHeader("Accept"), "application/json") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
	}
}

// FromContext returns the session Gate attached to the request.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*Session); ok {
			return sess
		}
	}
	return nil
}
