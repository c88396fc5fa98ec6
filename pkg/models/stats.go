package models

// DashboardStats is the aggregate snapshot behind the overview page
type DashboardStats struct {
	KPIs               KPIs           `json:"kpis"`
	HourlyTraffic      []TrafficPoint `json:"hourly_traffic"`
	StatusDistribution []StatusCount  `json:"status_distribution"`
	EventHealth        []StatusCount  `json:"event_health"` // processed, failed, pending, processing
	RecentErrors       []LogEntry     `json:"recent_errors"`
}

type KPIs struct {
	PendingWebhooks int     `json:"pending_webhooks"`
	ErrorRate24h    float64 `json:"error_rate_24h"`
	DailyMessages   int     `json:"daily_messages"`
	ActiveTenants   int     `json:"active_tenants"`
}

type TrafficPoint struct {
	Hour     string `json:"hour"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// HealthStatus is the body of the gateway's /health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func (h HealthStatus) OK() bool {
	return h.Status == "ok"
}
