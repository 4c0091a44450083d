package geo

import (
	"context"
	"fmt"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

// Disabled is a DistanceProvider for deployments without provider credentials.
// Every call fails as unavailable, which surfaces to clients as 502 instead of
// silently pricing deliveries off bad data.
type Disabled struct{}

// DistanceAndDuration always fails.
func (Disabled) DistanceAndDuration(context.Context, string, string) (DistanceDuration, error) {
	return DistanceDuration{}, errDisabled()
}

// DistanceFromPoint always fails.
func (Disabled) DistanceFromPoint(context.Context, domain.Coordinates, string) (int64, error) {
	return 0, errDisabled()
}

// Route always fails.
func (Disabled) Route(context.Context, string, string) (RoutePath, error) {
	return RoutePath{}, errDisabled()
}

func errDisabled() error {
	return fmt.Errorf("%w: distance provider is not configured", apperr.Unavailable)
}

var _ DistanceProvider = Disabled{}
