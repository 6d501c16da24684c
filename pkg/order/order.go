package order

import (
	"errors"
	"time"

	"github.com/example/freshcart/pkg/cart"
	"github.com/example/freshcart/pkg/models"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

const (
	// DefaultUserID is used for orders placed without a signed-in user.
	DefaultUserID       = "1"
	DefaultDeliveryTime = "30-45 minutes"
)

// PlaceOrderRequest is a snapshot of what the shopper is buying. Items are
// copied into the order, so later cart changes do not affect it.
type PlaceOrderRequest struct {
	Items         []cart.Item
	Shop          models.Shop
	PaymentMethod models.PaymentMethod
	UserID        string
	Address       *models.DeliveryAddress
}

// Event is published on the actor system event stream for every order
// placement and status change.
type Event interface {
	Kind() string
	Snapshot() models.Order
}

type Placed struct {
	Order models.Order
	At    time.Time
}

func (e *Placed) Kind() string           { return "order_placed" }
func (e *Placed) Snapshot() models.Order { return e.Order }

type StatusChanged struct {
	Order models.Order
	From  models.OrderStatus
	To    models.OrderStatus
	At    time.Time
}

func (e *StatusChanged) Kind() string           { return "order_status_changed" }
func (e *StatusChanged) Snapshot() models.Order { return e.Order }
