package courier

import (
	"context"

	"github.com/google/uuid"

	"poslito/internal/domain"
	"poslito/internal/matching"
)

// courierRepository defines storage operations required by the business layer.
type courierRepository interface {
	Create(ctx context.Context, c *domain.Courier) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Courier, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Courier, error)
	UpdateCoordinates(ctx context.Context, id uuid.UUID, coords domain.Coordinates) (bool, error)
}

// readyLister exposes deliveries waiting for a courier.
type readyLister interface {
	ListReady(ctx context.Context) ([]*domain.Delivery, error)
}

// positionStore keeps live courier positions.
type positionStore interface {
	SetPosition(ctx context.Context, courierID uuid.UUID, coords domain.Coordinates) error
	GetPosition(ctx context.Context, courierID uuid.UUID) (domain.Coordinates, error)
}

// matcher ranks ready deliveries for a courier.
type matcher interface {
	Match(ctx context.Context, vehicle domain.SizeType, point *domain.Coordinates, ready []*domain.Delivery) []matching.Candidate
}
