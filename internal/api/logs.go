package api

import (
	"context"
	"net/http"
	"strings"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/notify"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"
	"wpconn-dashboard/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const logsPath = "/dashboard/logs"

// errorsTabEvent is the event filter the errors tab falls back to when the
// operator typed none.
const errorsTabEvent = "error"

var logTabs = []tabDef{
	{key: "global", label: "Global"},
	{key: "phone", label: "By phone"},
	{key: "errors", label: "Errors"},
}

type logFilter struct {
	Event    string
	TenantID string
}

type logView = tableView[models.LogEntry, logFilter, struct{}]

// LogHandler shows the gateway's audit log and retries failed webhook
// deliveries.
type LogHandler struct {
	*Base
}

func NewLogHandler(base *Base) *LogHandler {
	return &LogHandler{Base: base}
}

func (h *LogHandler) view(c *gin.Context, tab string) *logView {
	sess := session.FromContext(c)
	return listview.Lookup(h.Views, sess.ID, "logs", "logs:"+tab, func() *logView {
		return newTableView[models.LogEntry, logFilter, struct{}](h.PageSize, models.LogEntry.Key, logFilter{})
	})
}

func (h *LogHandler) controller(c *gin.Context, tab string) listview.Controller[models.LogEntry, logFilter] {
	client := h.client(c)
	scope := ""
	if sess := session.FromContext(c); sess != nil {
		scope = sess.TenantScope
	}
	return listview.NewController(func(ctx context.Context, f logFilter, limit, offset int) ([]models.LogEntry, error) {
		return client.ListLogs(ctx, logQuery(tab, f, scope, limit, offset))
	})
}

// logQuery maps a tab's filter to the backend query. A tenant typed in the
// phone tab wins over the session scope.
func logQuery(tab string, f logFilter, scope string, limit, offset int) gateway.LogQuery {
	q := gateway.LogQuery{Event: f.Event, TenantID: scope, Limit: limit, Offset: offset}
	if tab == "phone" && f.TenantID != "" {
		q.TenantID = f.TenantID
	}
	if tab == "errors" && q.Event == "" {
		q.Event = errorsTabEvent
	}
	return q
}

func (h *LogHandler) List(c *gin.Context) {
	tab := pickTab(c.Query("tab"), logTabs)
	v := h.view(c, tab)

	drive(h.Base, c, "logs", v.list, h.controller(c, tab), func() logFilter {
		f := logFilter{Event: strings.TrimSpace(c.Query("event"))}
		if tab == "phone" {
			f.TenantID = strings.TrimSpace(c.Query("tenant_id"))
		}
		return f
	})

	model := newTableModel(logsPath, tab, v)
	model.Tabs = tabLinks(logsPath, tab, logTabs)
	h.render(c, http.StatusOK, web.PageLogs, "logs", "Logs", model)
}

// Retry re-sends a failed webhook delivery. Only entries shown in the
// session's current view with the delivery-failed event are accepted.
func (h *LogHandler) Retry(c *gin.Context) {
	tab := pickTab(c.PostForm("tab"), logTabs)
	back := logsPath + "?tab=" + tab
	sess := session.FromContext(c)
	v := h.view(c, tab)

	entry, ok := v.list.Find(c.Param("id"))
	if !ok {
		h.notice(c, notify.LevelError, "That log entry is no longer in the current page")
		redirect(c, back)
		return
	}
	if !entry.Retryable() {
		h.notice(c, notify.LevelError, "Only failed webhook deliveries can be retried")
		redirect(c, back)
		return
	}

	noticeID := h.Notices.Loading(sess.ID, "Retrying webhook delivery #"+entry.Key()+"…")
	res, err := h.client(c).RetryLog(c.Request.Context(), entry.Key())
	if err != nil {
		h.Logger.Warn("webhook retry failed",
			zap.String("component", "logs"),
			zap.String("log_id", entry.Key()),
			zap.Int("status", gateway.StatusCode(err)),
			zap.Error(err),
		)
		if h.Metrics != nil {
			h.Metrics.Errors.WithLabelValues("logs").Inc()
		}
		h.Notices.Replace(sess.ID, noticeID, notify.LevelError, "Retry failed: "+gateway.Detail(err))
		redirect(c, back)
		return
	}

	msg := "Webhook resent successfully"
	if res != nil && res.Detail != "" {
		msg = res.Detail
	}
	h.Notices.Replace(sess.ID, noticeID, notify.LevelSuccess, msg)
	refresh(h.Base, c, "logs", v.list, h.controller(c, tab))
	redirect(c, back)
}
