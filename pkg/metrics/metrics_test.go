package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OrdersPlaced.WithLabelValues("cash").Inc()
	m.OrdersPlaced.WithLabelValues("cash").Inc()
	m.StatusTransitions.WithLabelValues("packed").Inc()
	m.Latency.WithLabelValues("/health").Observe(0.0004)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `freshcart_orders_placed_total{payment_method="cash"} 2`)
	assert.Contains(t, string(body), `freshcart_orders_status_transitions_total{status="packed"} 1`)
	// sub-millisecond requests are not rounded away
	assert.Contains(t, string(body), `freshcart_gateway_http_request_duration_seconds_sum{handler="/health"} 0.0004`)
}
