// Package checkout turns the cart into an order: precondition checks,
// simulated payment, placement, then clearing the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"github.com/example/freshcart/pkg/pricing"
	"go.uber.org/zap"
)

var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrShopNotFound         = errors.New("shop not found")
	ErrOutOfStock           = errors.New("product out of stock")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrOrderPlacementFailed = errors.New("order placement failed")
)

type PaymentAuthorizer interface {
	Authorize(ctx context.Context, method models.PaymentMethod, amount float64) error
}

// SimulatedPayments approves every supported payment method.
type SimulatedPayments struct{}

func (SimulatedPayments) Authorize(_ context.Context, method models.PaymentMethod, amount float64) error {
	if !method.Valid() {
		return fmt.Errorf("%w: unsupported method %q", ErrPaymentDeclined, method)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: invalid amount %.2f", ErrPaymentDeclined, amount)
	}
	return nil
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req order.PlaceOrderRequest) (models.Order, error)
}

// UserSource supplies the signed-in user, if any.
type UserSource interface {
	User() (models.User, bool)
}

type Service struct {
	cart     *cart.Cart
	catalog  *catalog.Catalog
	orders   OrderPlacer
	users    UserSource
	payments PaymentAuthorizer
	logger   *zap.Logger
}

func NewService(c *cart.Cart, cat *catalog.Catalog, orders OrderPlacer, users UserSource,
	payments PaymentAuthorizer, logger *zap.Logger) *Service {
	if payments == nil {
		payments = SimulatedPayments{}
	}
	return &Service{
		cart:     c,
		catalog:  cat,
		orders:   orders,
		users:    users,
		payments: payments,
		logger:   logger,
	}
}

type Summary struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	pricing.Bill
}

func (s *Service) Summary() Summary {
	items := s.cart.Items()
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return Summary{
		Items:      items,
		TotalItems: total,
		Bill:       pricing.ComputeLines(cart.Lines(items)...),
	}
}

// PlaceOrder places an order for the whole cart with the shop of the first
// added item. The cart is emptied up front so concurrent checkouts cannot
// order the same items twice; on failure the items go back into the cart.
func (s *Service) PlaceOrder(ctx context.Context, method models.PaymentMethod) (models.Order, error) {
	items := s.cart.Take()
	if len(items) == 0 {
		return models.Order{}, ErrCartEmpty
	}

	o, err := s.place(ctx, items, method)
	if err != nil {
		s.cart.Restore(items)
		return models.Order{}, err
	}
	return o, nil
}

func (s *Service) place(ctx context.Context, items []cart.Item, method models.PaymentMethod) (models.Order, error) {
	shopIDs := cart.ShopIDs(items)
	shop, err := s.catalog.Shop(shopIDs[0])
	if err != nil {
		return models.Order{}, fmt.Errorf("%w: %s", ErrShopNotFound, shopIDs[0])
	}
	if len(shopIDs) > 1 {
		s.logger.Warn("Cart spans several shops, ordering from the first",
			zap.String("shop_id", shop.ID),
			zap.Strings("shop_ids", shopIDs))
	}

	for _, item := range items {
		inStock := item.Product.InStock
		if p, err := s.catalog.Product(item.Product.ID); err == nil {
			inStock = p.InStock
		}
		if !inStock {
			return models.Order{}, fmt.Errorf("%w: %s", ErrOutOfStock, item.Product.Name)
		}
	}

	bill := pricing.ComputeLines(cart.Lines(items)...)
	if err := s.payments.Authorize(ctx, method, bill.Total); err != nil {
		s.logger.Warn("Payment declined", zap.String("payment_method", string(method)), zap.Error(err))
		if errors.Is(err, ErrPaymentDeclined) {
			return models.Order{}, err
		}
		return models.Order{}, fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
	}

	req := order.PlaceOrderRequest{
		Items:         items,
		Shop:          shop,
		PaymentMethod: method,
	}
	if s.users != nil {
		if u, ok := s.users.User(); ok {
			addr := u.DeliveryAddress()
			req.UserID = u.ID
			req.Address = &addr
		}
	}

	o, err := s.orders.PlaceOrder(ctx, req)
	if err != nil {
		s.logger.Error("Failed to place order", zap.String("shop_id", shop.ID), zap.Error(err))
		return models.Order{}, fmt.Errorf("%w: %w", ErrOrderPlacementFailed, err)
	}
	return o, nil
}
