package api

import (
	"context"
	"net/http"
	"strings"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/listview"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"
	"wpconn-dashboard/pkg/models"

	"github.com/gin-gonic/gin"
)

const historyPath = "/dashboard/history"

var historyTabs = []tabDef{
	{key: "global", label: "Global"},
	{key: "phone", label: "By phone"},
}

type messageFilter struct {
	Phone  string
	Search string
}

type messageView = tableView[models.Message, messageFilter, struct{}]

// HistoryHandler browses stored messages. It is read only.
type HistoryHandler struct {
	*Base
}

func NewHistoryHandler(base *Base) *HistoryHandler {
	return &HistoryHandler{Base: base}
}

func (h *HistoryHandler) List(c *gin.Context) {
	sess := session.FromContext(c)
	tab := pickTab(c.Query("tab"), historyTabs)

	v := listview.Lookup(h.Views, sess.ID, "history", "messages:"+tab, func() *messageView {
		return newTableView[models.Message, messageFilter, struct{}](h.PageSize, func(m models.Message) string { return m.ID }, messageFilter{})
	})

	client := h.client(c)
	ctl := listview.NewController(func(ctx context.Context, f messageFilter, limit, offset int) ([]models.Message, error) {
		q := gateway.MessageQuery{Search: f.Search, Limit: limit, Offset: offset}
		if tab == "phone" {
			q.Phone = f.Phone
		}
		return client.ListMessages(ctx, q)
	})

	drive(h.Base, c, "messages", v.list, ctl, func() messageFilter {
		f := messageFilter{Search: strings.TrimSpace(c.Query("search"))}
		if tab == "phone" {
			f.Phone = strings.TrimSpace(c.Query("phone"))
		}
		return f
	})

	model := newTableModel(historyPath, tab, v)
	model.Tabs = tabLinks(historyPath, tab, historyTabs)
	h.render(c, http.StatusOK, web.PageHistory, "history", "History", model)
}
