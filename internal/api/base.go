package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/health"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/metrics"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Base carries what every dashboard handler needs.
type Base struct {
	Client   *gateway.Client
	Sessions *session.Manager
	Views    *listview.Registry
	Notices  *notify.Center
	Poller   *health.Poller
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	PageSize int
}

// client returns the gateway client for this request, authenticated with
// the session's key and upgraded to https when the page is.
func (b *Base) client(c *gin.Context) *gateway.Client {
	cl := b.Client.ForScheme(requestScheme(c))
	if sess := session.FromContext(c); sess != nil {
		cl = cl.WithAPIKey(sess.APIKey)
	}
	return cl
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return "http"
}

func (b *Base) render(c *gin.Context, status int, page, section, title string, content any) {
	data := web.Page{
		Title:   title,
		Section: section,
		Content: content,
	}
	if sess := session.FromContext(c); sess != nil {
		data.Operator = sess.Name
		if data.Operator == "" {
			data.Operator = sess.Email
		}
		data.Scope = sess.TenantScope
		data.Notifications = b.Notices.Drain(sess.ID)
	}
	if b.Poller != nil {
		if st, ok := b.Poller.Last(); ok {
			data.Health = &st
		}
	}
	c.HTML(status, page, data)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// fail logs a gateway failure and queues it for the operator.
func (b *Base) fail(c *gin.Context, component, msg string, err error) {
	b.Logger.Warn(msg,
		zap.String("component", component),
		zap.Int("status", gateway.StatusCode(err)),
		zap.Error(err),
	)
	if b.Metrics != nil {
		b.Metrics.Errors.WithLabelValues(component).Inc()
	}
	if sess := session.FromContext(c); sess != nil {
		b.Notices.Error(sess.ID, msg+": "+gateway.Detail(err))
	}
}

func (b *Base) notice(c *gin.Context, level notify.Level, msg string) {
	if sess := session.FromContext(c); sess != nil {
		b.Notices.Push(sess.ID, level, msg)
	}
}

// drive applies the list navigation carried by the request's query string
// and reports whether anything failed. Without parameters the view is only
// fetched on first mount; otherwise the existing state is rendered as is.
func drive[T any, F any](b *Base, c *gin.Context, what string, s *listview.State[T, F], ctl listview.Controller[T, F], search func() F) {
	ctx := c.Request.Context()

	var err error
	switch {
	case c.Query("submit") != "":
		err = ctl.Search(ctx, s, search())
	case c.Query("nav") == "next":
		err = ctl.Next(ctx, s)
	case c.Query("nav") == "prev":
		err = ctl.Prev(ctx, s)
	case c.Query("page") != "":
		page, convErr := strconv.Atoi(c.Query("page"))
		if convErr != nil {
			page = 0
		}
		err = ctl.GoTo(ctx, s, page)
	case c.Query("reload") != "":
		err = ctl.Load(ctx, s)
	default:
		_, err = ctl.Mount(ctx, s)
	}

	switch {
	case err == nil, errors.Is(err, listview.ErrDiscarded), errors.Is(err, listview.ErrClosed),
		errors.Is(err, listview.ErrFirstPage), errors.Is(err, listview.ErrLastPage):
	case errors.Is(err, listview.ErrBusy):
		b.notice(c, notify.LevelInfo, "Still loading "+what+", try again in a moment")
	case errors.Is(err, listview.ErrInvalidPage):
		b.notice(c, notify.LevelError, "Invalid page number")
	default:
		b.fail(c, what, "Failed to load "+what, err)
	}

	if id := c.Query("detail"); id != "" {
		if !s.Select(id) {
			b.notice(c, notify.LevelError, "That record is no longer in the current page")
		}
	}
	if c.Query("close") != "" {
		s.Deselect()
	}
}

// refresh reloads a list after a successful mutation.
func refresh[T any, F any](b *Base, c *gin.Context, what string, s *listview.State[T, F], ctl listview.Controller[T, F]) {
	err := ctl.Refresh(c.Request.Context(), s)
	if err != nil && !errors.Is(err, listview.ErrDiscarded) && !errors.Is(err, listview.ErrClosed) {
		b.fail(c, what, "Failed to reload "+what, err)
	}
}
