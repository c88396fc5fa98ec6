package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPingHealthyGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = io.WriteString(w, `{"status":"ok"}`)
		case "/api/v1/tenants":
			_, _ = io.WriteString(w, `[]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	t.Setenv("GATEWAY_URL", srv.URL+"/api/v1")

	out, err := execute(t, "ping", "--retries", "1")
	require.NoError(t, err)
	require.Contains(t, out, "is healthy")
}

func TestPingGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"detail":"database offline"}`)
	}))
	defer srv.Close()
	t.Setenv("GATEWAY_URL", srv.URL+"/api/v1")

	out, err := execute(t, "ping", "--retries", "2", "--interval", "1ms")
	require.Error(t, err)
	require.Contains(t, out, "attempt 2/2: database offline")
}

func TestSessionsPruneSQLite(t *testing.T) {
	t.Setenv("SESSION_STORE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "sessions.db"))

	out, err := execute(t, "sessions", "prune")
	require.NoError(t, err)
	require.Contains(t, out, "pruned 0 expired sessions")

	out, err = execute(t, "sessions", "count")
	require.NoError(t, err)
	require.Contains(t, out, "0 sessions")
}
