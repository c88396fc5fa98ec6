package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wpconn-dashboard/internal/metrics"

	"go.uber.org/zap"
)

// APIKeyHeader carries the shared secret on every gateway request.
const APIKeyHeader = "x-api-key"

type Options struct {
	BaseURL    string
	APIKey     string
	HealthURL  string // defaults to <origin>/health
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Client talks to the WPConn gateway REST API.
type Client struct {
	baseURL   string
	healthURL string
	apiKey    string
	http      *http.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	health := opts.HealthURL
	if health == "" {
		health = defaultHealthURL(base)
	}
	return &Client{
		baseURL:   base,
		healthURL: health,
		apiKey:    opts.APIKey,
		http:      httpClient,
		logger:    logger.With(zap.String("component", "gateway")),
		metrics:   opts.Metrics,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithAPIKey returns a client sending key instead of the configured one.
// The receiver is not modified.
func (c *Client) WithAPIKey(key string) *Client {
	if key == "" || key == c.apiKey {
		return c
	}
	cp := *c
	cp.apiKey = key
	return &cp
}

// ForScheme returns a client whose base URL never downgrades a secure page
// to an insecure backend origin. The receiver is not modified.
func (c *Client) ForScheme(pageScheme string) *Client {
	upgraded := UpgradeScheme(c.baseURL, pageScheme)
	if upgraded == c.baseURL {
		return c
	}
	cp := *c
	cp.baseURL = upgraded
	cp.healthURL = UpgradeScheme(c.healthURL, pageScheme)
	return &cp
}

// UpgradeScheme rewrites an http base URL to https when the page is https.
func UpgradeScheme(base, pageScheme string) string {
	if !strings.EqualFold(pageScheme, "https") {
		return base
	}
	if len(base) >= 7 && strings.EqualFold(base[:7], "http://") {
		return "https://" + base[7:]
	}
	return base
}

func defaultHealthURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base + "/health"
	}
	return u.Scheme + "://" + u.Host + "/health"
}

// --- Helper Functions ---

func (c *Client) sendRequest(ctx context.Context, endpoint, method, path string, query url.Values, body, out any) error {
	return c.do(ctx, endpoint, method, c.baseURL+path, query, body, out)
}

func (c *Client) do(ctx context.Context, endpoint, method, rawURL string, query url.Values, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, "transport_error", start)
		c.logger.Warn("gateway request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "read_error", start)
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	c.observe(endpoint, fmt.Sprintf("%d", resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(endpoint, resp.StatusCode, respBody)
		c.logger.Warn("gateway returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.GatewayRequests.WithLabelValues(endpoint, status).Inc()
	c.metrics.GatewayLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset < 0 {
		offset = 0
	}
	q.Set("offset", fmt.Sprintf("%d", offset))
	return q
}

func setIf(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}
