package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EventWebhookDeliveryFailed marks a webhook push the gateway gave up on.
// Only these entries can be retried.
const EventWebhookDeliveryFailed = "webhook_delivery_failed"

// LogID is a log entry id. Some gateway builds send it as a number, others
// as a string; both decode to the same canonical text.
type LogID string

func (id *LogID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = LogID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("log id must be a string or number: %w", err)
	}
	*id = LogID(n.String())
	return nil
}

func (id LogID) String() string {
	return string(id)
}

// LogEntry represents an audit log row recorded by the gateway
type LogEntry struct {
	ID        LogID  `json:"id"`
	TenantID  string `json:"tenant_id,omitempty"`
	Event     string `json:"event"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (l LogEntry) Key() string {
	return string(l.ID)
}

func (l LogEntry) Retryable() bool {
	return l.Event == EventWebhookDeliveryFailed
}

// RetryResult is returned by the gateway after a retry attempt.
type RetryResult struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}
