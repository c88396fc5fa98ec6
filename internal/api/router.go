package api

import (
	"net/http"
	"time"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/health"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/logging"
	"wpconn-dashboard/internal/metrics"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"
	"wpconn-dashboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything NewRouter wires into the handlers.
type Deps struct {
	Client        *gateway.Client
	Sessions      *session.Manager
	Authenticator session.Authenticator
	Views         *listview.Registry
	Notices       *notify.Center
	Poller        *health.Poller
	Hub           *ws.Hub
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Location      *time.Location

	LoginMode    string
	APIKey       string
	DefaultScope string
	PageSize     int
}

func NewRouter(d Deps) (*gin.Engine, error) {
	renderer, err := web.NewRenderer(d.Location)
	if err != nil {
		return nil, err
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.PageSize < 1 {
		d.PageSize = 50
	}

	// Logout and expiry discard the session's views and notifications.
	d.Sessions.OnEnd(d.Views.Drop)
	d.Sessions.OnEnd(d.Notices.Drop)

	base := &Base{
		Client:   d.Client,
		Sessions: d.Sessions,
		Views:    d.Views,
		Notices:  d.Notices,
		Poller:   d.Poller,
		Logger:   d.Logger.With(zap.String("component", "api")),
		Metrics:  d.Metrics,
		PageSize: d.PageSize,
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(d.Logger))
	r.HTMLRender = renderer
	r.StaticFS("/static", web.Static())

	authHandler := NewAuthHandler(base, d.Authenticator, d.LoginMode, d.APIKey, d.DefaultScope)
	dashboardHandler := NewDashboardHandler(base)
	connectionHandler := NewConnectionHandler(base)
	historyHandler := NewHistoryHandler(base)
	logHandler := NewLogHandler(base)
	userHandler := NewUserHandler(base)

	r.GET("/", func(c *gin.Context) { redirect(c, "/dashboard") })
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.GET("/healthz", func(c *gin.Context) {
		resp := gin.H{"status": "ok"}
		if d.Poller != nil {
			if st, ok := d.Poller.Last(); ok {
				resp["gateway"] = st
			}
		}
		c.JSON(http.StatusOK, resp)
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	gate := d.Sessions.Gate("/login")
	if d.Hub != nil {
		r.GET("/ws", gate, d.Hub.Handler())
	}

	dash := r.Group("/dashboard", gate)
	{
		dash.GET("", dashboardHandler.Overview)
		dash.POST("/scope", dashboardHandler.SetScope)

		dash.GET("/connections", connectionHandler.List)
		dash.POST("/connections", connectionHandler.Create)
		dash.POST("/connections/:id", connectionHandler.Update)
		dash.GET("/connections/:id/delete", connectionHandler.ConfirmDelete)
		dash.POST("/connections/:id/delete", connectionHandler.Delete)

		dash.GET("/history", historyHandler.List)

		dash.GET("/logs", logHandler.List)
		dash.POST("/logs/:id/retry", logHandler.Retry)

		dash.GET("/users", userHandler.List)
		dash.POST("/users", userHandler.Create)
		dash.POST("/users/:id", userHandler.Update)
		dash.GET("/users/:id/delete", userHandler.ConfirmDelete)
		dash.POST("/users/:id/delete", userHandler.Delete)
	}

	return r, nil
}
