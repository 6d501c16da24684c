package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus(t *testing.T) {
	assert.True(t, OrderStatusPacked.Valid())
	assert.False(t, OrderStatus("lost").Valid())

	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusOutForDelivery.Terminal())
}

func TestOrderCloneIsDeep(t *testing.T) {
	o := Order{
		ID:              "ORD001",
		Items:           []OrderItem{{ProductID: "1", Quantity: 2}},
		DeliveryAddress: DeliveryAddress{Location: &Location{Latitude: 1}},
		Tracking:        &Tracking{ETA: "5 minutes"},
	}

	c := o.Clone()
	c.Items[0].Quantity = 9
	c.DeliveryAddress.Location.Latitude = 2
	c.Tracking.ETA = "1 minutes"

	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, 1.0, o.DeliveryAddress.Location.Latitude)
	assert.Equal(t, "5 minutes", o.Tracking.ETA)
}

func TestUserDeliveryAddress(t *testing.T) {
	u := User{Address: Address{Street: "1 Road", City: "Pune", Pincode: "411001", Location: Location{Latitude: 18.5}}}
	da := u.DeliveryAddress()
	assert.Equal(t, "1 Road", da.Street)
	assert.Equal(t, 18.5, da.Location.Latitude)
}
