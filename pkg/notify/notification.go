package notify

import (
	"time"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
)

const (
	KindOrderPlaced        = "order_placed"
	KindOrderStatusChanged = "order_status_changed"
)

// Notification is the wire form of an order event shared by every sink.
type Notification struct {
	Kind          string               `json:"kind"`
	OrderID       string               `json:"order_id"`
	UserID        string               `json:"user_id"`
	ShopID        string               `json:"shop_id"`
	ShopName      string               `json:"shop_name"`
	Status        models.OrderStatus   `json:"status"`
	PreviousState models.OrderStatus   `json:"previous_status,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Total         float64              `json:"total"`
	Tracking      *models.Tracking     `json:"tracking,omitempty"`
	At            time.Time            `json:"at"`
}

func FromEvent(e order.Event) Notification {
	o := e.Snapshot()
	n := Notification{
		Kind:          e.Kind(),
		OrderID:       o.ID,
		UserID:        o.UserID,
		ShopID:        o.ShopID,
		ShopName:      o.ShopName,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		Tracking:      o.Tracking,
	}
	switch ev := e.(type) {
	case *order.Placed:
		n.At = ev.At
	case *order.StatusChanged:
		n.PreviousState = ev.From
		n.At = ev.At
	}
	return n
}
