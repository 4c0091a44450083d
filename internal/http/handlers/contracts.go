package handlers

import (
	"context"

	"github.com/google/uuid"

	"poslito/internal/domain"
	"poslito/internal/matching"
	"poslito/internal/service/courier"
	"poslito/internal/service/delivery"
)

type deliveryUsecase interface {
	Create(ctx context.Context, in delivery.CreateInput) (*domain.Delivery, error)
	Get(ctx context.Context, id uuid.UUID, identity domain.Identity) (*domain.Delivery, delivery.Role, error)
	List(ctx context.Context, identity domain.Identity) ([]*domain.Delivery, error)
	GetSafe(ctx context.Context, safeID uuid.UUID) (domain.SafeDelivery, error)
	Transition(ctx context.Context, safeID uuid.UUID, next domain.DeliveryState, identity domain.Identity) (*domain.Delivery, error)
	Route(ctx context.Context, safeID uuid.UUID) (*domain.Route, error)
	ListRoutes(ctx context.Context, address string) ([]*domain.Route, error)
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type courierUsecase interface {
	Register(ctx context.Context, identity domain.Identity, in courier.RegisterInput) (*domain.Courier, error)
	GetByAccount(ctx context.Context, identity domain.Identity) (*domain.Courier, error)
	UpdatePosition(ctx context.Context, identity domain.Identity, coords domain.Coordinates) error
	Closest(ctx context.Context, identity domain.Identity) ([]matching.Candidate, error)
}

// NewCourierUsecase wires a courier Service into a courierUsecase.
func NewCourierUsecase(svc *courier.Service) courierUsecase {
	return svc
}
