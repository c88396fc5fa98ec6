package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTenantDisplayNameFallsBackToName(t *testing.T) {
	require.Equal(t, "Sul", Tenant{Alias: "Sul", Name: "legacy"}.DisplayName())
	require.Equal(t, "legacy", Tenant{Name: "legacy"}.DisplayName())
}

func TestLogEntryRetryable(t *testing.T) {
	require.True(t, LogEntry{ID: "42", Event: EventWebhookDeliveryFailed}.Retryable())
	require.False(t, LogEntry{ID: "7", Event: "webhook_delivered"}.Retryable())
	require.Equal(t, "42", LogEntry{ID: "42"}.Key())
}

func TestLogIDDecodesNumbersAndStrings(t *testing.T) {
	var entries []LogEntry
	raw := `[{"id":42,"event":"a"},{"id":"7f1c","event":"b"},{"id":null,"event":"c"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &entries))
	require.Equal(t, LogID("42"), entries[0].ID)
	require.Equal(t, LogID("7f1c"), entries[1].ID)
	require.Equal(t, LogID(""), entries[2].ID)

	var bad LogEntry
	require.Error(t, json.Unmarshal([]byte(`{"id":true}`), &bad))

	out, err := json.Marshal(LogEntry{ID: "42", Event: "a"})
	require.NoError(t, err)
	require.Contains(t, string(out), `"id":"42"`)
}

func TestUpdatesOmitUnsetSecrets(t *testing.T) {
	raw, err := json.Marshal(TenantUpdate{Alias: "Sul"})
	require.NoError(t, err)
	require.NotContains(t, string(raw), "token")

	pw := "s3cret"
	raw, err = json.Marshal(UserUpdate{Name: "Ops", Password: &pw})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"password":"s3cret"`)
}
