package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wpconn-dashboard/internal/database"
	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func sample(id string, expires time.Time) *Session {
	return &Session{
		ID:          id,
		Identity:    Identity{UserID: "u1", Email: "ops@example.com", Name: "Ops", Role: "admin"},
		APIKey:      "k",
		TenantScope: "tenant-a",
		CreatedAt:   expires.Add(-time.Hour),
		ExpiresAt:   expires,
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Save(ctx, sample("live", now.Add(time.Hour))))
	require.NoError(t, store.Save(ctx, sample("stale", now.Add(-time.Minute))))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "ops@example.com", got.Email)
	require.Equal(t, "tenant-a", got.TenantScope)
	require.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))

	got.TenantScope = "tenant-b"
	require.NoError(t, store.Save(ctx, got))
	got, err = store.Get(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "tenant-b", got.TenantScope)

	_, err = store.Get(ctx, "missing")
	require.True(t, errors.Is(err, ErrNotFound))

	pruned, err := store.Prune(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestGormStoreSQLite(t *testing.T) {
	db, err := database.OpenDialector(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")))
	require.NoError(t, err)

	store := NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store := NewRedisStore(RedisConfig{Addr: addr})
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(context.Background()))

	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Save(ctx, sample("redis-live", now.Add(time.Minute))))
	got, err := store.Get(ctx, "redis-live")
	require.NoError(t, err)
	require.Equal(t, "Ops", got.Name)
	require.NoError(t, store.Delete(ctx, "redis-live"))
	_, err = store.Get(ctx, "redis-live")
	require.True(t, errors.Is(err, ErrNotFound))
}

func newGatedRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		_, err := m.Start(c, Identity{Email: "ops@example.com"}, "", "")
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/logout", func(c *gin.Context) {
		m.End(c)
		c.Status(http.StatusNoContent)
	})
	private := r.Group("/dashboard", m.Gate("/login"))
	private.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, FromContext(c).Email)
	})
	return r
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	r := newGatedRouter(NewManager(NewMemoryStore(), Options{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThenLogout(t *testing.T) {
	m := NewManager(NewMemoryStore(), Options{CookieName: "sid"})
	var ended []string
	m.OnEnd(func(id string) { ended = append(ended, id) })
	r := newGatedRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	require.Equal(t, "sid", cookie.Name)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ops@example.com", w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, []string{cookie.Value}, ended)

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
}

func TestExpiredSessionIsEnded(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, Options{CookieName: "sid"})
	var ended []string
	m.OnEnd(func(id string) { ended = append(ended, id) })
	require.NoError(t, store.Save(context.Background(), sample("old", time.Now().Add(-time.Second))))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "old"})
	w := httptest.NewRecorder()
	newGatedRouter(m).ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, []string{"old"}, ended)
	_, err := store.Get(context.Background(), "old")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestRehydratePrunes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sample("a", time.Now().Add(time.Hour))))
	require.NoError(t, store.Save(ctx, sample("b", time.Now().Add(-time.Hour))))

	n, err := NewManager(store, Options{}).Rehydrate(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestLocalAuthenticator(t *testing.T) {
	auth := LocalAuthenticator{Username: "admin", Password: "admin"}

	ident, err := auth.Authenticate(context.Background(), "admin", "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", ident.Email)

	_, err = auth.Authenticate(context.Background(), "admin", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

type fakeLogin struct {
	user *models.User
	err  error
}

func (f fakeLogin) Login(context.Context, models.Credentials) (*models.User, error) {
	return f.user, f.err
}

func TestBackendAuthenticator(t *testing.T) {
	ctx := context.Background()

	ident, err := NewBackendAuthenticator(fakeLogin{user: &models.User{ID: "7", Email: "a@b.c", Name: "A", Role: "viewer", IsActive: true}}).
		Authenticate(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	require.Equal(t, Identity{UserID: "7", Email: "a@b.c", Name: "A", Role: "viewer"}, ident)

	_, err = NewBackendAuthenticator(fakeLogin{user: &models.User{IsActive: false}}).Authenticate(ctx, "a", "b")
	require.ErrorIs(t, err, ErrInactiveUser)

	_, err = NewBackendAuthenticator(fakeLogin{err: &gateway.APIError{Endpoint: "users.login", StatusCode: http.StatusUnauthorized}}).Authenticate(ctx, "a", "b")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewBackendAuthenticator(fakeLogin{err: errors.New("dial tcp: refused")}).Authenticate(ctx, "a", "b")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}
