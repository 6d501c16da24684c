package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	cart    *cart.Cart
	catalog *catalog.Catalog
	orders  *order.Store
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithDelay(t, 0)
}

func newFixtureWithDelay(t *testing.T, placeDelay time.Duration) *fixture {
	t.Helper()
	orders, err := order.NewStore(actor.NewActorSystem(), zap.NewNop(), order.Options{
		TrackingInterval: time.Hour,
		PlaceDelay:       placeDelay,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = orders.Close() })
	return &fixture{cart: cart.New(), catalog: catalog.New(catalog.Seed()), orders: orders}
}

func (f *fixture) product(t *testing.T, id string) models.Product {
	t.Helper()
	p, err := f.catalog.Product(id)
	require.NoError(t, err)
	return p
}

type staticUser struct{ user models.User }

func (s staticUser) User() (models.User, bool) { return s.user, true }

type failingOrders struct{}

func (failingOrders) PlaceOrder(context.Context, order.PlaceOrderRequest) (models.Order, error) {
	return models.Order{}, errors.New("actor unavailable")
}

type decliningPayments struct{}

func (decliningPayments) Authorize(context.Context, models.PaymentMethod, float64) error {
	return errors.New("insufficient funds")
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())

	f.cart.Add(f.product(t, "1"), 2)
	f.cart.Add(f.product(t, "3"), 1)
	f.cart.Add(f.product(t, "2"), 1)

	sum := svc.Summary()
	assert.Equal(t, 4, sum.TotalItems)
	assert.Equal(t, f.cart.TotalPrice(), sum.Subtotal)
	assert.Equal(t, sum.Subtotal+sum.DeliveryFee+sum.Tax, sum.Total)
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := catalog.Seed().Users[1]
	svc := NewService(f.cart, f.catalog, f.orders, staticUser{user}, nil, zap.NewNop())

	f.cart.Add(f.product(t, "1"), 2)
	f.cart.Add(f.product(t, "3"), 1)

	o, err := svc.PlaceOrder(ctx, models.PaymentMethodRazorpay)
	require.NoError(t, err)

	assert.Equal(t, "ORD001", o.ID)
	assert.Equal(t, "1", o.ShopID)
	assert.Equal(t, user.ID, o.UserID)
	assert.Equal(t, "Delhi", o.DeliveryAddress.City)
	assert.Equal(t, models.PaymentMethodRazorpay, o.PaymentMethod)
	assert.Equal(t, 0, f.cart.Len())

	f.cart.Add(f.product(t, "2"), 1)
	next, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, "ORD002", next.ID)
}

func TestPlaceOrderUsesFirstShop(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())

	f.cart.Add(f.product(t, "5"), 1)
	f.cart.Add(f.product(t, "1"), 1)

	o, err := svc.PlaceOrder(context.Background(), models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, "2", o.ShopID)
	assert.Len(t, o.Items, 2)
}

func TestPlaceOrderErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
		_, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("unknown shop", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
		f.cart.Add(models.Product{ID: "x", ShopID: "99", Price: 10, InStock: true}, 1)
		_, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
		assert.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("out of stock", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
		f.cart.Add(f.product(t, "1"), 1)
		f.cart.Add(f.product(t, "4"), 1)
		_, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.Equal(t, 2, f.cart.Len())
	})

	t.Run("unsupported payment", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
		f.cart.Add(f.product(t, "1"), 1)
		_, err := svc.PlaceOrder(ctx, "card")
		assert.ErrorIs(t, err, ErrPaymentDeclined)
	})

	t.Run("declined payment", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, f.orders, nil, decliningPayments{}, zap.NewNop())
		f.cart.Add(f.product(t, "1"), 1)
		_, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
		assert.ErrorIs(t, err, ErrPaymentDeclined)
		assert.Equal(t, 1, f.cart.Len())
	})

	t.Run("placement failure", func(t *testing.T) {
		f := newFixture(t)
		svc := NewService(f.cart, f.catalog, failingOrders{}, nil, nil, zap.NewNop())
		f.cart.Add(f.product(t, "1"), 1)
		_, err := svc.PlaceOrder(ctx, models.PaymentMethodCash)
		assert.ErrorIs(t, err, ErrOrderPlacementFailed)
		assert.Equal(t, 1, f.cart.Len())
	})
}

func TestItemsAddedDuringPlacementStayInCart(t *testing.T) {
	f := newFixtureWithDelay(t, 200*time.Millisecond)
	svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
	f.cart.Add(f.product(t, "1"), 1)

	type result struct {
		order models.Order
		err   error
	}
	done := make(chan result, 1)
	go func() {
		o, err := svc.PlaceOrder(context.Background(), models.PaymentMethodCash)
		done <- result{o, err}
	}()

	time.Sleep(50 * time.Millisecond)
	f.cart.Add(f.product(t, "3"), 1)

	res := <-done
	require.NoError(t, res.err)
	require.Len(t, res.order.Items, 1)
	assert.Equal(t, "1", res.order.Items[0].ProductID)

	items := f.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].Product.ID)
}

func TestConcurrentCheckoutsOrderCartOnce(t *testing.T) {
	f := newFixtureWithDelay(t, 50*time.Millisecond)
	svc := NewService(f.cart, f.catalog, f.orders, nil, nil, zap.NewNop())
	f.cart.Add(f.product(t, "1"), 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), models.PaymentMethodCash)
		}(i)
	}
	wg.Wait()

	placed, empty := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			placed++
		case errors.Is(err, ErrCartEmpty):
			empty++
		}
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, 1, empty)

	list, err := f.orders.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 0, f.cart.Len())
}
