package geo

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

// GoogleProvider implements DistanceProvider on top of the Google Maps
// distance matrix and directions APIs.
type GoogleProvider struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGoogleProvider creates a Google Maps backed provider. Every call is
// bounded by the given timeout so a slow upstream cannot stall callers.
func NewGoogleProvider(apiKey string, timeout time.Duration) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GoogleProvider{client: client, timeout: timeout}, nil
}

func (p *GoogleProvider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.timeout)
}

func placeRef(placeID string) string {
	return "place_id:" + placeID
}

func pointRef(c domain.Coordinates) string {
	// Google expects "lat,lng".
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// DistanceAndDuration returns the driving distance and duration between two places.
func (p *GoogleProvider) DistanceAndDuration(ctx context.Context, originPlaceID, destPlaceID string) (DistanceDuration, error) {
	elem, err := p.matrixElement(ctx, placeRef(originPlaceID), placeRef(destPlaceID))
	if err != nil {
		return DistanceDuration{}, err
	}
	return DistanceDuration{
		Meters:  int64(elem.Distance.Meters),
		Seconds: int64(elem.Duration / time.Second),
	}, nil
}

// DistanceFromPoint returns the driving distance from a coordinate to a place.
func (p *GoogleProvider) DistanceFromPoint(ctx context.Context, point domain.Coordinates, destPlaceID string) (int64, error) {
	elem, err := p.matrixElement(ctx, pointRef(point), placeRef(destPlaceID))
	if err != nil {
		return 0, err
	}
	return int64(elem.Distance.Meters), nil
}

func (p *GoogleProvider) matrixElement(ctx context.Context, origin, destination string) (*maps.DistanceMatrixElement, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	resp, err := p.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: distance matrix: %v", apperr.Unavailable, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("%w: distance matrix: empty response", apperr.Unavailable)
	}

	elem := resp.Rows[0].Elements[0]
	switch elem.Status {
	case "OK":
		return elem, nil
	case "NOT_FOUND":
		return nil, apperr.NewValidationError("place_id", "unknown place identifier", "ChIJTQPgy2TtPkcRoFWXxtH3AAQ")
	default:
		return nil, fmt.Errorf("%w: distance matrix: element status %s", apperr.Unavailable, elem.Status)
	}
}

// Route returns the driving route between two places: the overview polyline
// plus the ordered start coordinate of each step.
func (p *GoogleProvider) Route(ctx context.Context, originPlaceID, destPlaceID string) (RoutePath, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	routes, _, err := p.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      placeRef(originPlaceID),
		Destination: placeRef(destPlaceID),
	})
	if err != nil {
		return RoutePath{}, fmt.Errorf("%w: directions: %v", apperr.Unavailable, err)
	}
	if len(routes) == 0 {
		return RoutePath{}, fmt.Errorf("%w: directions: no route", apperr.Unavailable)
	}

	route := routes[0]
	path := RoutePath{Polyline: route.OverviewPolyline.Points}
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			path.Steps = append(path.Steps, domain.Coordinates{
				Longitude: step.StartLocation.Lng,
				Latitude:  step.StartLocation.Lat,
			})
		}
	}
	return path, nil
}

var _ DistanceProvider = (*GoogleProvider)(nil)
