package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/freshcart/pkg/auth"
	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/checkout"
	"github.com/example/freshcart/pkg/config"
	"github.com/example/freshcart/pkg/metrics"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"github.com/example/freshcart/pkg/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAudit struct{}

func (fakeAudit) GetAuditLogs(_ context.Context, entityID string, _ int64) ([]*repository.AuditLog, error) {
	return []*repository.AuditLog{{ID: "a1", Action: "order_placed", EntityID: entityID}}, nil
}

func newTestGateway(t *testing.T, audit AuditReader) *Gateway {
	return newTestGatewayWith(t, audit, nil)
}

// newTestGatewayWith lets wrap replace the order service the gateway sees.
func newTestGatewayWith(t *testing.T, audit AuditReader, wrap func(*order.Store) OrderService) *Gateway {
	t.Helper()
	logger := zap.NewNop()
	data := catalog.Seed()

	cat := catalog.New(data)
	c := cart.New()
	orders, err := order.NewStore(actor.NewActorSystem(), logger, order.Options{
		TrackingInterval: time.Hour,
		Seed:             data.Orders,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = orders.Close() })

	authStore := auth.New(data.Users, auth.NewIssuer("test", time.Hour), logger, auth.Options{})
	reg := prometheus.NewRegistry()

	var svc OrderService = orders
	if wrap != nil {
		svc = wrap(orders)
	}
	return NewGateway(&config.Config{}, logger, Deps{
		Catalog:  cat,
		Cart:     c,
		Orders:   svc,
		Auth:     authStore,
		Checkout: checkout.NewService(c, cat, orders, authStore, nil, logger),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Audit:    audit,
	})
}

func do(t *testing.T, g *Gateway, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	g.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthAndMetrics(t *testing.T) {
	g := newTestGateway(t, nil)

	rec := do(t, g, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, g, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `freshcart_gateway_http_requests_total{handler="/health",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `freshcart_gateway_http_request_duration_seconds_count{handler="/health"} 1`)
}

func TestCatalogRoutes(t *testing.T) {
	g := newTestGateway(t, nil)

	var shops struct {
		Shops []models.Shop `json:"shops"`
		Total int           `json:"total"`
	}
	rec := do(t, g, http.MethodGet, "/api/v1/shops?q=organic", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &shops)
	require.NotEmpty(t, shops.Shops)
	assert.Equal(t, "2", shops.Shops[0].ID)

	rec = do(t, g, http.MethodGet, "/api/v1/shops/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, g, http.MethodGet, "/api/v1/shops/99/products", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var cats struct {
		Categories []string `json:"categories"`
	}
	rec = do(t, g, http.MethodGet, "/api/v1/shops/1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cats)
	assert.Equal(t, catalog.AllCategories, cats.Categories[0])

	rec = do(t, g, http.MethodGet, "/api/v1/products/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, g, http.MethodGet, "/api/v1/banners", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type cartView struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

func TestCartRoutes(t *testing.T) {
	g := newTestGateway(t, nil)

	rec := do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "3"})
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	decode(t, rec, &view)
	assert.Equal(t, 3, view.TotalItems)
	assert.Equal(t, 140.0, view.TotalPrice)

	rec = do(t, g, http.MethodPut, "/api/v1/cart/items/1", jsonObj{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "3", view.Items[0].Product.ID)

	rec = do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, g, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Empty(t, view.Items)
}

func TestCheckoutRoutes(t *testing.T) {
	g := newTestGateway(t, nil)

	rec := do(t, g, http.MethodPost, "/api/v1/checkout", jsonObj{"payment_method": "cash"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "1", "quantity": 2})
	do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "3"})
	do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "2"})

	var sum checkout.Summary
	rec = do(t, g, http.MethodGet, "/api/v1/checkout/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sum)
	assert.Equal(t, sum.Subtotal+sum.DeliveryFee+sum.Tax, sum.Total)

	rec = do(t, g, http.MethodPost, "/api/v1/checkout", jsonObj{"payment_method": "card"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = do(t, g, http.MethodPost, "/api/v1/checkout", jsonObj{"payment_method": "cash"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var o models.Order
	decode(t, rec, &o)
	assert.Equal(t, "ORD003", o.ID)
	assert.Equal(t, sum.Total, o.Total)

	var view cartView
	decode(t, do(t, g, http.MethodGet, "/api/v1/cart", nil), &view)
	assert.Empty(t, view.Items)

	do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "4"})
	rec = do(t, g, http.MethodPost, "/api/v1/checkout", jsonObj{"payment_method": "cash"})
	assert.Equal(t, http.StatusConflict, rec.Code, "out of stock")
}

func TestOrderRoutes(t *testing.T) {
	g := newTestGateway(t, nil)

	var list struct {
		Orders []models.Order `json:"orders"`
		Total  int            `json:"total"`
	}
	rec := do(t, g, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 2, list.Total)

	rec = do(t, g, http.MethodGet, "/api/v1/orders/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, g, http.MethodGet, "/api/v1/orders/ORD999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, g, http.MethodPut, "/api/v1/orders/ORD002/status", jsonObj{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, g, http.MethodPut, "/api/v1/orders/ORD002/status", jsonObj{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)
	var o models.Order
	decode(t, rec, &o)
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	assert.Nil(t, o.Tracking)

	do(t, g, http.MethodPost, "/api/v1/cart/items", jsonObj{"product_id": "1"})
	rec = do(t, g, http.MethodPost, "/api/v1/checkout", jsonObj{"payment_method": "razorpay"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &o)

	var tracking struct {
		Started bool `json:"started"`
		Stopped bool `json:"stopped"`
	}
	decode(t, do(t, g, http.MethodPost, "/api/v1/orders/"+o.ID+"/tracking", nil), &tracking)
	assert.True(t, tracking.Started)
	decode(t, do(t, g, http.MethodPost, "/api/v1/orders/"+o.ID+"/tracking", nil), &tracking)
	assert.False(t, tracking.Started)
	decode(t, do(t, g, http.MethodDelete, "/api/v1/orders/"+o.ID+"/tracking", nil), &tracking)
	assert.True(t, tracking.Stopped)

	rec = do(t, g, http.MethodPost, "/api/v1/orders/ORD999/tracking", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var current models.Order
	decode(t, do(t, g, http.MethodGet, "/api/v1/orders/current", nil), &current)
	assert.Equal(t, o.ID, current.ID)
}

// lostLookups answers every lookup as missing, as a timed out actor request does.
type lostLookups struct {
	*order.Store
}

func (lostLookups) GetByID(context.Context, string) (models.Order, bool) {
	return models.Order{}, false
}

func TestUpdateOrderStatusFailedLookup(t *testing.T) {
	g := newTestGatewayWith(t, nil, func(s *order.Store) OrderService { return lostLookups{s} })

	rec := do(t, g, http.MethodPut, "/api/v1/orders/ORD002/status", jsonObj{"status": "delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body jsonObj
	decode(t, rec, &body)
	assert.Contains(t, body["error"], "ORD002")
}

func TestOrderAudit(t *testing.T) {
	rec := do(t, newTestGateway(t, nil), http.MethodGet, "/api/v1/orders/ORD001/audit", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = do(t, newTestGateway(t, fakeAudit{}), http.MethodGet, "/api/v1/orders/ORD001/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "order_placed")
}

func TestAuthRoutes(t *testing.T) {
	g := newTestGateway(t, nil)

	rec := do(t, g, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, g, http.MethodPost, "/api/v1/auth/login", jsonObj{"phone": "+91-9876543211"})
	require.Equal(t, http.StatusOK, rec.Code)
	var session auth.Session
	decode(t, rec, &session)
	assert.Equal(t, "2", session.User.ID)
	bearer := []string{"Authorization", "Bearer " + session.Token}

	rec = do(t, g, http.MethodGet, "/api/v1/auth/me", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, g, http.MethodPatch, "/api/v1/auth/me", jsonObj{"name": "Jane S.", "address": jsonObj{"city": "Gurgaon"}}, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	var u models.User
	decode(t, rec, &u)
	assert.Equal(t, "Jane S.", u.Name)
	assert.Equal(t, "Gurgaon", u.Address.City)
	assert.Equal(t, "110001", u.Address.Pincode)

	rec = do(t, g, http.MethodPost, "/api/v1/auth/logout", nil, bearer...)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, g, http.MethodGet, "/api/v1/auth/me", nil, bearer...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, g, http.MethodPost, "/api/v1/auth/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &session)
	assert.Equal(t, "1", session.User.ID)
}

type jsonObj = map[string]interface{}
