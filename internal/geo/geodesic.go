package geo

import (
	"math"

	"poslito/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Geodesic returns the straight-line distance over the earth's surface between
// two points, in meters (haversine formula). It is used as a cheap pre-filter
// before querying the external provider for real driving distances.
func Geodesic(a, b domain.Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
