package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusPacked, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodRazorpay
}

type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
}

type DeliveryAddress struct {
	Street   string    `json:"street"`
	City     string    `json:"city"`
	Pincode  string    `json:"pincode"`
	Location *Location `json:"location,omitempty"`
}

type Tracking struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	ETA       string  `json:"eta"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ShopID          string          `json:"shop_id"`
	ShopName        string          `json:"shop_name"`
	Items           []OrderItem     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	DeliveryFee     float64         `json:"delivery_fee"`
	Tax             float64         `json:"tax"`
	Total           float64         `json:"total"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	DeliveryAddress DeliveryAddress `json:"delivery_address"`
	DeliveryTime    string          `json:"delivery_time,omitempty"`
	Tracking        *Tracking       `json:"tracking,omitempty"`
}

// Clone returns a deep copy so callers never share slices or pointers with
// the order store.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderItem(nil), o.Items...)
	if o.DeliveryAddress.Location != nil {
		loc := *o.DeliveryAddress.Location
		c.DeliveryAddress.Location = &loc
	}
	if o.Tracking != nil {
		t := *o.Tracking
		c.Tracking = &t
	}
	return c
}
