package order

import (
	"github.com/example/freshcart/pkg/geo"
	"github.com/example/freshcart/pkg/models"
)

var progression = []models.OrderStatus{
	models.OrderStatusConfirmed,
	models.OrderStatusPacked,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

// Progression returns the status sequence walked by tracking.
func Progression() []models.OrderStatus {
	return append([]models.OrderStatus(nil), progression...)
}

// NextStatus returns the status that follows s in the tracking progression.
// Delivered and cancelled orders have no successor.
func NextStatus(s models.OrderStatus) (models.OrderStatus, bool) {
	for i, st := range progression {
		if st == s && i+1 < len(progression) {
			return progression[i+1], true
		}
	}
	return "", false
}

type route struct {
	origin models.Location
	dest   models.Location
}

// courierTracking places the courier halfway along the route.
func courierTracking(r route) *models.Tracking {
	pos := geo.Interpolate(r.origin, r.dest, 0.5)
	return &models.Tracking{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		ETA:       geo.EstimateDeliveryTime(geo.Distance(pos, r.dest)),
	}
}
