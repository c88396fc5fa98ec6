package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"wpconn-dashboard/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) at(i int) recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newBackend(t *testing.T, status int, response string) (*Client, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Clone(), body})
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return NewClient(Options{BaseURL: srv.URL + "/api/v1/", APIKey: "admin-key"}), rec
}

func TestListMessagesQuery(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `[{"id":"m1","phone":"5511","direction":"inbound","type":"text","status":"read","created_at":"2024-05-01T10:00:00"}]`)

	msgs, err := client.ListMessages(context.Background(), MessageQuery{Phone: "5511", Limit: 50, Offset: 0})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.True(t, msgs[0].Inbound())

	require.Equal(t, 1, calls.count())
	call := calls.at(0)
	require.Equal(t, http.MethodGet, call.method)
	require.Equal(t, "/api/v1/messages", call.path)
	require.Equal(t, "limit=50&offset=0&phone=5511", call.query)
	require.Equal(t, "admin-key", call.header.Get(APIKeyHeader))
}

func TestListLogsOmitsEmptyFilters(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `[]`)

	logs, err := client.ListLogs(context.Background(), LogQuery{Event: "  ", Limit: 50, Offset: 100})
	require.NoError(t, err)
	require.Empty(t, logs)
	require.Equal(t, "limit=50&offset=100", calls.at(0).query)
}

func TestListLogsAcceptsStringAndNumericIDs(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `[
		{"id":"7f1c","event":"webhook_delivery_failed","created_at":"2024-01-01T10:00:00"},
		{"id":42,"event":"webhook_delivered","created_at":"2024-01-01T10:01:00"}
	]`)

	logs, err := client.ListLogs(context.Background(), LogQuery{Limit: 50})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "7f1c", logs[0].Key())
	require.True(t, logs[0].Retryable())
	require.Equal(t, "42", logs[1].Key())
}

func TestDashboardStatsWithStringErrorIDs(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `{"kpis":{"daily_messages":3},"recent_errors":[{"id":"a1","event":"error","detail":"boom","created_at":"2024-01-01T10:00:00"}]}`)

	stats, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.RecentErrors, 1)
	require.Equal(t, models.LogID("a1"), stats.RecentErrors[0].ID)
}

func TestRetryLogEscapesID(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `{"status":"success"}`)

	_, err := client.RetryLog(context.Background(), "7f1c")
	require.NoError(t, err)
	require.Equal(t, "/api/v1/logs/7f1c/retry", calls.at(0).path)
}

func TestUpdateTenantOmitsBlankToken(t *testing.T) {
	client, calls := newBackend(t, http.StatusOK, `{"id":"t1","alias":"Sul"}`)

	_, err := client.UpdateTenant(context.Background(), "t1", models.TenantUpdate{Alias: "Sul", WabaID: "1", PhoneNumberID: "2"})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(calls.at(0).body, &sent))
	require.Equal(t, http.MethodPut, calls.at(0).method)
	require.Equal(t, "/api/v1/tenants/t1", calls.at(0).path)
	require.NotContains(t, sent, "token")

	token := "new-token"
	_, err = client.UpdateTenant(context.Background(), "t1", models.TenantUpdate{Alias: "Sul", Token: &token})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(calls.at(1).body, &sent))
	require.Equal(t, "new-token", sent["token"])
}

func TestCreateTenantSendsJSON(t *testing.T) {
	client, calls := newBackend(t, http.StatusCreated, `{"id":"t9","alias":"Sul","api_key":"generated"}`)

	tenant, err := client.CreateTenant(context.Background(), models.TenantInput{Alias: "Sul", WabaID: "1", PhoneNumberID: "2", Token: "abc"})
	require.NoError(t, err)
	require.Equal(t, "generated", tenant.APIKey)

	call := calls.at(0)
	require.Equal(t, "application/json; charset=utf-8", call.header.Get("Content-Type"))
	require.JSONEq(t, `{"alias":"Sul","waba_id":"1","phone_number_id":"2","token":"abc"}`, string(call.body))
}

func TestRetryLogSurfacesDetail(t *testing.T) {
	client, calls := newBackend(t, http.StatusInternalServerError, `{"detail":"timeout"}`)

	_, err := client.RetryLog(context.Background(), "42")
	require.Error(t, err)
	require.Equal(t, "/api/v1/logs/42/retry", calls.at(0).path)
	require.Equal(t, http.MethodPost, calls.at(0).method)
	require.Equal(t, "timeout", Detail(err))
	require.Equal(t, http.StatusInternalServerError, StatusCode(err))
}

func TestDeleteNoContent(t *testing.T) {
	client, calls := newBackend(t, http.StatusNoContent, ``)

	require.NoError(t, client.DeleteUser(context.Background(), "u 1"))
	require.Equal(t, "/api/v1/users/u 1", calls.at(0).path)
}

func TestParseDetailShapes(t *testing.T) {
	assert.Equal(t, "timeout", parseDetail([]byte(`{"detail":"timeout"}`)))
	assert.Equal(t, "field required; value is not a valid email address",
		parseDetail([]byte(`{"detail":[{"msg":"field required"},{"msg":"value is not a valid email address"}]}`)))
	assert.Equal(t, "Invalid API Key", parseDetail([]byte(`{"error":"Invalid API Key"}`)))
	assert.Equal(t, "", parseDetail([]byte(`<html>bad gateway</html>`)))
}

func TestDetailFallbacks(t *testing.T) {
	client, _ := newBackend(t, http.StatusBadGateway, `oops`)
	_, err := client.DashboardStats(context.Background())
	require.Equal(t, "502 Bad Gateway", Detail(err))

	unreachable := NewClient(Options{BaseURL: "http://127.0.0.1:1/api/v1"})
	_, err = unreachable.DashboardStats(context.Background())
	var tErr *TransportError
	require.ErrorAs(t, err, &tErr)
	require.Equal(t, "gateway unreachable", Detail(err))
}

func TestUpgradeScheme(t *testing.T) {
	require.Equal(t, "https://gw.local/api/v1", UpgradeScheme("http://gw.local/api/v1", "https"))
	require.Equal(t, "http://gw.local/api/v1", UpgradeScheme("http://gw.local/api/v1", "http"))
	require.Equal(t, "https://gw.local/api/v1", UpgradeScheme("https://gw.local/api/v1", "https"))
}

func TestForSchemeLeavesOriginalUntouched(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://gw.local/api/v1"})

	secure := client.ForScheme("https")
	require.Equal(t, "https://gw.local/api/v1", secure.BaseURL())
	require.Equal(t, "https://gw.local/health", secure.healthURL)
	require.Equal(t, "http://gw.local/api/v1", client.BaseURL())
	require.Same(t, client, client.ForScheme("http"))
}

func TestHealthUsesOrigin(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
		_, _ = io.WriteString(w, `{"status":"ok","database":"connected"}`)
	}))
	defer srv.Close()

	client := NewClient(Options{BaseURL: srv.URL + "/api/v1"})
	status, err := client.Health(context.Background())
	require.NoError(t, err)
	require.True(t, status.OK())
	require.Equal(t, "/health", <-paths)
}

func TestWithAPIKeyOverridesHeader(t *testing.T) {
	client, rec := newBackend(t, http.StatusOK, `[]`)

	_, err := client.WithAPIKey("session-key").ListUsers(context.Background(), UserQuery{Limit: 50})
	require.NoError(t, err)
	require.Equal(t, "session-key", rec.at(0).header.Get(APIKeyHeader))
	require.Same(t, client, client.WithAPIKey(""))
}
