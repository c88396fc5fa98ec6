package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx gateway response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Detail     string // operator-facing message from the body, if any
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("gateway %s: %d %s: %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("gateway %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError means the request never produced a response.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Detail:     parseDetail(body),
		Body:       body,
	}
}

// parseDetail understands {"detail": "..."}, FastAPI validation lists
// ({"detail": [{"msg": "..."}]}) and {"error": "..."}.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return payload.Error
}

// Detail extracts the message worth showing an operator.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("%d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return "gateway unreachable"
	}
	return err.Error()
}

func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
