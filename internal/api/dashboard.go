package api

import (
	"net/http"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/internal/session"
	"wpconn-dashboard/internal/web"
	"wpconn-dashboard/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Fixed colors per delivery state, shared by the status and event-health
// bars.
var statusColors = map[string]string{
	"processed":  "green",
	"delivered":  "green",
	"read":       "green",
	"sent":       "blue",
	"failed":     "red",
	"pending":    "yellow",
	"processing": "blue",
}

type DashboardHandler struct {
	*Base
}

func NewDashboardHandler(base *Base) *DashboardHandler {
	return &DashboardHandler{Base: base}
}

type bar struct {
	Label   string
	Count   int
	Percent int
	Color   string
}

type trafficBar struct {
	Hour        string
	Inbound     int
	Outbound    int
	InboundPct  int
	OutboundPct int
}

type overviewView struct {
	Failed       bool
	Error        string
	KPIs         models.KPIs
	Traffic      []trafficBar
	Statuses     []bar
	EventHealth  []bar
	RecentErrors []models.LogEntry
}

// Overview fetches the aggregate statistics once per page load. On failure
// only the failure message is rendered.
func (h *DashboardHandler) Overview(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		h.Views.Enter(sess.ID, "overview")
	}

	stats, err := h.client(c).DashboardStats(c.Request.Context())
	if err != nil {
		h.Logger.Warn("failed loading dashboard stats", zap.String("component", "dashboard"), zap.Error(err))
		if h.Metrics != nil {
			h.Metrics.Errors.WithLabelValues("dashboard").Inc()
		}
		h.render(c, http.StatusOK, web.PageOverview, "overview", "Overview", overviewView{Failed: true, Error: gateway.Detail(err)})
		return
	}

	h.render(c, http.StatusOK, web.PageOverview, "overview", "Overview", buildOverview(stats))
}

func buildOverview(stats *models.DashboardStats) overviewView {
	view := overviewView{
		KPIs:         stats.KPIs,
		Statuses:     bars(stats.StatusDistribution),
		EventHealth:  bars(stats.EventHealth),
		RecentErrors: stats.RecentErrors,
	}

	peak := 0
	for _, p := range stats.HourlyTraffic {
		peak = max(peak, p.Inbound, p.Outbound)
	}
	for _, p := range stats.HourlyTraffic {
		view.Traffic = append(view.Traffic, trafficBar{
			Hour:        p.Hour,
			Inbound:     p.Inbound,
			Outbound:    p.Outbound,
			InboundPct:  percent(p.Inbound, peak),
			OutboundPct: percent(p.Outbound, peak),
		})
	}
	return view
}

func bars(counts []models.StatusCount) []bar {
	total := 0
	for _, sc := range counts {
		total += sc.Count
	}
	out := make([]bar, 0, len(counts))
	for _, sc := range counts {
		color, ok := statusColors[sc.Status]
		if !ok {
			color = "gray"
		}
		out = append(out, bar{Label: sc.Status, Count: sc.Count, Percent: percent(sc.Count, total), Color: color})
	}
	return out
}

func percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return n * 100 / total
}
