package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wpconn-dashboard/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer(time.UTC)
	require.NoError(t, err)
	for _, name := range pageNames {
		require.Contains(t, r.pages, name)
	}
	require.Panics(t, func() { r.Instance("missing", nil) })
}

func TestLoginPageRendersNotificationsAndError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r, err := NewRenderer(time.UTC)
	require.NoError(t, err)

	engine := gin.New()
	engine.HTMLRender = r
	engine.GET("/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, PageLogin, Page{
			Title:         "Sign in",
			Notifications: []notify.Notification{{ID: "n1", Level: notify.LevelInfo, Message: "Signed out"}},
			Content:       map[string]string{"Error": "Invalid credentials", "Username": "ops", "Mode": "local"},
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "Invalid credentials")
	require.Contains(t, body, `class="toast info"`)
	require.Contains(t, body, "Signed out")
	require.NotContains(t, body, "/logout")
}

func TestTimestampFunc(t *testing.T) {
	ts := Funcs(time.UTC)["ts"].(func(string) string)
	require.Equal(t, "2024-05-01 10:00:00", ts("2024-05-01T10:00:00"))
	require.Equal(t, "-", ts(""))
}

func TestMask(t *testing.T) {
	mask := Funcs(time.UTC)["mask"].(func(string) string)
	require.Equal(t, "abcd…wxyz", mask("abcdefghijklmnopqrstuvwxyz"))
	require.Equal(t, "•••", mask("abc"))
}
