package geo

import (
	"context"

	"poslito/internal/domain"
)

// DistanceDuration is the driving distance and expected duration between two places.
type DistanceDuration struct {
	Meters  int64
	Seconds int64
}

// RoutePath is the driving route between two places: an encoded polyline and
// the ordered start coordinates of each step.
type RoutePath struct {
	Polyline string
	Steps    []domain.Coordinates
}

// DistanceProvider wraps the external routing/geocoding service.
//
// Implementations must return an error matching apperr.Invalid for an invalid
// place identifier and an error matching apperr.Unavailable for transport or
// provider failures, so callers can tell the two apart.
type DistanceProvider interface {
	DistanceAndDuration(ctx context.Context, originPlaceID, destPlaceID string) (DistanceDuration, error)
	DistanceFromPoint(ctx context.Context, point domain.Coordinates, destPlaceID string) (int64, error)
	Route(ctx context.Context, originPlaceID, destPlaceID string) (RoutePath, error)
}
