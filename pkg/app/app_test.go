package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Simulation.PlaceOrderDelay = 0
	cfg.Simulation.LoginDelay = 0
	cfg.Simulation.AutoLoginDelay = 0
	cfg.Simulation.TrackingInterval = 20 * time.Millisecond
	return cfg
}

func TestAppPlacesAndTracksOrders(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close(ctx)

	assert.Eventually(t, func() bool {
		_, ok := a.Auth.User()
		return ok
	}, time.Second, 10*time.Millisecond, "auto login")

	p, err := a.Catalog.Product("1")
	require.NoError(t, err)
	a.Cart.Add(p, 2)

	o, err := a.Checkout.PlaceOrder(ctx, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, "ORD003", o.ID)
	assert.Equal(t, "1", o.UserID)

	_, err = a.Orders.StartTracking(ctx, o.ID)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		got, _ := a.Orders.GetByID(ctx, o.ID)
		return got.Status == models.OrderStatusDelivered
	}, 2*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		a.Gateway.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		body := rec.Body.String()
		return bytes.Contains([]byte(body), []byte(`freshcart_orders_placed_total{payment_method="cash"} 1`)) &&
			bytes.Contains([]byte(body), []byte(`freshcart_orders_status_transitions_total{status="delivered"} 1`))
	}, 2*time.Second, 20*time.Millisecond)
}

func TestAppWithRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Auth.AutoLogin = false
	cfg.Simulation.SeedOrders = false
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close(ctx)

	_, err = a.Auth.Login(ctx, "+91-9876543211")
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:2"))

	list, err := a.Orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
