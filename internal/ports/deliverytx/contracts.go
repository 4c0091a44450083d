package deliverytx

import (
	"context"

	"github.com/google/uuid"

	"poslito/internal/domain"
)

// Repository is the per-transaction view used while creating a delivery.
type Repository interface {
	GetOrCreatePlace(ctx context.Context, p *domain.Place) error
	GetOrCreatePerson(ctx context.Context, p *domain.Person) error
	FindAccountIDByEmail(ctx context.Context, email string) (*uuid.UUID, error)
	InsertItem(ctx context.Context, item *domain.Item) error
	InsertDelivery(ctx context.Context, d *domain.Delivery) error
	InsertRoute(ctx context.Context, r *domain.Route) error
}

// Runner is a transaction runner.
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
