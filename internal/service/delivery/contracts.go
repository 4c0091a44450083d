package delivery

import (
	"context"

	"github.com/google/uuid"

	"poslito/internal/domain"
	"poslito/internal/ports/deliverytx"
)

// deliveryRepository defines storage operations required by the business layer.
type deliveryRepository interface {
	deliverytx.Runner
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error)
	GetBySafeID(ctx context.Context, safeID uuid.UUID) (*domain.Delivery, error)
	ListForPerson(ctx context.Context, personID, accountID uuid.UUID) ([]*domain.Delivery, error)
	ListReady(ctx context.Context) ([]*domain.Delivery, error)
	CompareAndSetState(ctx context.Context, id uuid.UUID, from, to domain.DeliveryState, courierID *uuid.UUID) (bool, error)
}

// routeRepository defines route lookups used by the business layer.
type routeRepository interface {
	GetByDeliverySafeID(ctx context.Context, safeID uuid.UUID) (*domain.Route, error)
	List(ctx context.Context, address string) ([]*domain.Route, error)
}

type counter interface {
	Inc()
}
