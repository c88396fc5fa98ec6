package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryIsSingleton(t *testing.T) {
	m := Registry("wpconn_test")
	require.Same(t, m, Registry("other"))
	require.NotNil(t, m.GatewayRequests)
	require.NotPanics(t, func() {
		m.Logins.WithLabelValues("success").Inc()
		m.GatewayLatency.WithLabelValues("tenants.list").Observe(0.2)
	})
}
