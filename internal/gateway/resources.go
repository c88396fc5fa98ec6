package gateway

import (
	"context"
	"net/http"

	"wpconn-dashboard/pkg/models"
)

type TenantQuery struct {
	Limit  int
	Offset int
}

type MessageQuery struct {
	Phone  string
	Search string
	Limit  int
	Offset int
}

type LogQuery struct {
	Event    string
	TenantID string
	Limit    int
	Offset   int
}

type UserQuery struct {
	Limit  int
	Offset int
}

// --- Tenant Methods ---

func (c *Client) ListTenants(ctx context.Context, q TenantQuery) ([]models.Tenant, error) {
	tenants := []models.Tenant{}
	err := c.sendRequest(ctx, "tenants.list", http.MethodGet, "/tenants", pageQuery(q.Limit, q.Offset), nil, &tenants)
	return tenants, err
}

func (c *Client) CreateTenant(ctx context.Context, in models.TenantInput) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := c.sendRequest(ctx, "tenants.create", http.MethodPost, "/tenants", nil, in, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) UpdateTenant(ctx context.Context, id string, in models.TenantUpdate) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := c.sendRequest(ctx, "tenants.update", http.MethodPut, idPath("/tenants", id), nil, in, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) DeleteTenant(ctx context.Context, id string) error {
	return c.sendRequest(ctx, "tenants.delete", http.MethodDelete, idPath("/tenants", id), nil, nil, nil)
}

// --- Message Methods ---

func (c *Client) ListMessages(ctx context.Context, q MessageQuery) ([]models.Message, error) {
	query := pageQuery(q.Limit, q.Offset)
	setIf(query, "phone", q.Phone)
	setIf(query, "search", q.Search)

	messages := []models.Message{}
	err := c.sendRequest(ctx, "messages.list", http.MethodGet, "/messages", query, nil, &messages)
	return messages, err
}

// --- Log Methods ---

func (c *Client) ListLogs(ctx context.Context, q LogQuery) ([]models.LogEntry, error) {
	query := pageQuery(q.Limit, q.Offset)
	setIf(query, "event", q.Event)
	setIf(query, "tenant_id", q.TenantID)

	logs := []models.LogEntry{}
	err := c.sendRequest(ctx, "logs.list", http.MethodGet, "/logs", query, nil, &logs)
	return logs, err
}

// RetryLog asks the gateway to resend the webhook recorded by a failed
// delivery log.
func (c *Client) RetryLog(ctx context.Context, id string) (*models.RetryResult, error) {
	var result models.RetryResult
	path := idPath("/logs", id) + "/retry"
	if err := c.sendRequest(ctx, "logs.retry", http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// --- User Methods ---

func (c *Client) ListUsers(ctx context.Context, q UserQuery) ([]models.User, error) {
	users := []models.User{}
	err := c.sendRequest(ctx, "users.list", http.MethodGet, "/users", pageQuery(q.Limit, q.Offset), nil, &users)
	return users, err
}

func (c *Client) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	var user models.User
	if err := c.sendRequest(ctx, "users.create", http.MethodPost, "/users", nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.sendRequest(ctx, "users.update", http.MethodPut, idPath("/users", id), nil, in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.sendRequest(ctx, "users.delete", http.MethodDelete, idPath("/users", id), nil, nil, nil)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var user models.User
	if err := c.sendRequest(ctx, "users.login", http.MethodPost, "/users/login", nil, creds, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Dashboard Methods ---

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.sendRequest(ctx, "dashboard.stats", http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var status models.HealthStatus
	if err := c.do(ctx, "health", http.MethodGet, c.healthURL, nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
