package geo

import (
	"fmt"
	"math"

	"github.com/example/freshcart/pkg/models"
)

const (
	earthRadiusKm = 6371.0
	// average courier speed used for ETA estimates
	courierSpeedKmh = 20.0
)

// Distance returns the great-circle distance between two points in km.
func Distance(a, b models.Location) float64 {
	dLat := toRad(b.Latitude - a.Latitude)
	dLon := toRad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Latitude))*math.Cos(toRad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Interpolate moves linearly from start to end; progress is clamped to [0, 1].
func Interpolate(start, end models.Location, progress float64) models.Location {
	progress = math.Max(0, math.Min(1, progress))
	return models.Location{
		Latitude:  start.Latitude + (end.Latitude-start.Latitude)*progress,
		Longitude: start.Longitude + (end.Longitude-start.Longitude)*progress,
	}
}

func EstimateDeliveryTime(distanceKm float64) string {
	minutes := int(math.Ceil(distanceKm * 60 / courierSpeedKmh))
	return fmt.Sprintf("%d minutes", minutes)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
