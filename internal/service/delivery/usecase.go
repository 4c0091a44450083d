package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"poslito/internal/apperr"
	"poslito/internal/domain"
	"poslito/internal/geo"
	"poslito/internal/logx"
	"poslito/internal/notify"
	"poslito/internal/ports/deliverytx"
	"poslito/internal/pricing"
)

// Role of the caller relative to a delivery they own.
type Role string

const (
	RoleSender   Role = "sender"
	RoleReceiver Role = "receiver"
)

// CreateInput carries everything needed to register a new delivery. The
// sender person comes from the authenticated identity, the rest from the
// request.
type CreateInput struct {
	Sender        domain.Person
	Receiver      domain.Person
	Item          domain.Item
	PickupPlace   domain.Place
	DeliveryPlace domain.Place
}

// Service - delivery lifecycle usecases.
type Service struct {
	repo             deliveryRepository
	routes           routeRepository
	provider         geo.DistanceProvider
	publisher        notify.Publisher
	operationTimeout time.Duration
	logger           logx.Logger
	transitions      *prometheus.CounterVec
	conflicts        counter
}

// NewService creates and configures a delivery Service. transitions and
// conflicts may be nil.
func NewService(
	repo deliveryRepository,
	routes routeRepository,
	provider geo.DistanceProvider,
	publisher notify.Publisher,
	timeout time.Duration,
	logger logx.Logger,
	transitions *prometheus.CounterVec,
	conflicts counter,
) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &Service{
		repo:             repo,
		routes:           routes,
		provider:         provider,
		publisher:        publisher,
		operationTimeout: timeout,
		logger:           logger,
		transitions:      transitions,
		conflicts:        conflicts,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateCreate(in *CreateInput) error {
	if err := in.Sender.Validate(); err != nil {
		return err
	}
	if err := in.Receiver.Validate(); err != nil {
		return err
	}
	if err := in.Item.Validate(); err != nil {
		return err
	}
	if err := in.PickupPlace.Validate(); err != nil {
		return err
	}
	if err := in.DeliveryPlace.Validate(); err != nil {
		return err
	}
	if in.PickupPlace.PlaceID == in.DeliveryPlace.PlaceID {
		return apperr.NewValidationError("delivery_place", "must differ from the pickup place", "")
	}
	return nil
}

// Create registers a new delivery: route distance and duration come from the
// external provider, the price from the distance, and the stored route from
// the provider's directions. A provider failure fails the whole creation;
// without a distance there is no price to charge.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Delivery, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	dd, err := s.provider.DistanceAndDuration(ctx, in.PickupPlace.PlaceID, in.DeliveryPlace.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("compute route distance: %w", err)
	}
	path, err := s.provider.Route(ctx, in.PickupPlace.PlaceID, in.DeliveryPlace.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("compute route path: %w", err)
	}

	d := &domain.Delivery{
		ID:              uuid.New(),
		SafeID:          uuid.New(),
		Sender:          in.Sender,
		Receiver:        in.Receiver,
		Item:            in.Item,
		PickupPlace:     in.PickupPlace,
		DeliveryPlace:   in.DeliveryPlace,
		State:           domain.StateReady,
		DistanceMeters:  dd.Meters,
		DurationSeconds: dd.Seconds,
		Price:           pricing.Price(dd.Meters, in.Item.Size, in.Item.Weight),
	}

	err = s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		if err := tx.GetOrCreatePlace(ctx, &d.PickupPlace); err != nil {
			return err
		}
		if err := tx.GetOrCreatePlace(ctx, &d.DeliveryPlace); err != nil {
			return err
		}
		if err := tx.GetOrCreatePerson(ctx, &d.Sender); err != nil {
			return err
		}
		if err := tx.GetOrCreatePerson(ctx, &d.Receiver); err != nil {
			return err
		}
		accountID, err := tx.FindAccountIDByEmail(ctx, d.Receiver.Email)
		if err != nil {
			return err
		}
		d.ReceiverAccountID = accountID

		if err := tx.InsertItem(ctx, &d.Item); err != nil {
			return err
		}
		if err := tx.InsertDelivery(ctx, d); err != nil {
			return err
		}
		return tx.InsertRoute(ctx, &domain.Route{
			DeliveryID: d.ID,
			Polyline:   path.Polyline,
			Steps:      path.Steps,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(context.WithoutCancel(ctx), notify.CreatedEvent(d))

	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.String("safe_id", d.SafeID.String()),
		logx.String("size", string(d.Item.Size)),
		logx.Int64("distance_m", d.DistanceMeters),
		logx.String("price", d.Price.String()),
	)
	return d, nil
}

// Get returns a delivery to its sender or receiver, along with which of the
// two the caller is.
func (s *Service) Get(ctx context.Context, id uuid.UUID, identity domain.Identity) (*domain.Delivery, Role, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if d == nil {
		return nil, "", fmt.Errorf("%w: delivery %s", apperr.NotFound, id)
	}
	if !identity.OwnsDelivery(d) {
		return nil, "", fmt.Errorf("%w: not a party to this delivery", apperr.Forbidden)
	}
	role := RoleReceiver
	if identity.PersonID == d.Sender.ID {
		role = RoleSender
	}
	return d, role, nil
}

// List returns all deliveries the caller sent or receives.
func (s *Service) List(ctx context.Context, identity domain.Identity) ([]*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListForPerson(ctx, identity.PersonID, identity.AccountID)
}

// GetSafe returns the courier-facing view of a delivery.
func (s *Service) GetSafe(ctx context.Context, safeID uuid.UUID) (domain.SafeDelivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.GetBySafeID(ctx, safeID)
	if err != nil {
		return domain.SafeDelivery{}, err
	}
	if d == nil {
		return domain.SafeDelivery{}, fmt.Errorf("%w: delivery %s", apperr.NotFound, safeID)
	}
	return d.SafeView(), nil
}

// Transition moves a delivery to the requested state on behalf of the given
// identity. The state write is a compare-and-set on the current state, so a
// concurrent transition surfaces as Conflict rather than overwriting.
func (s *Service) Transition(ctx context.Context, safeID uuid.UUID, next domain.DeliveryState, identity domain.Identity) (*domain.Delivery, error) {
	if !next.Valid() {
		return nil, apperr.NewValidationError("state", "unknown delivery state", string(domain.StateDelivering))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.GetBySafeID(ctx, safeID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: delivery %s", apperr.NotFound, safeID)
	}
	if !identity.CanChangeDeliveryState(d) {
		return nil, fmt.Errorf("%w: not allowed to change this delivery", apperr.Forbidden)
	}
	if !d.State.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperr.InvalidTransition, d.State, next)
	}

	var courierID *uuid.UUID
	if d.State == domain.StateReady && next == domain.StateAssigned {
		if identity.Courier == nil {
			return nil, fmt.Errorf("%w: only a courier can claim a delivery", apperr.Forbidden)
		}
		if !identity.Courier.CanCarry(d.Item.Size) {
			return nil, apperr.NewValidationError("item.size", "item does not fit the courier's vehicle", string(identity.Courier.VehicleType))
		}
		courierID = &identity.Courier.ID
	}

	ok, err := s.repo.CompareAndSetState(ctx, d.ID, d.State, next, courierID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if s.conflicts != nil {
			s.conflicts.Inc()
		}
		return nil, fmt.Errorf("%w: delivery %s changed concurrently", apperr.Conflict, safeID)
	}

	from := d.State
	d.State = next
	if courierID != nil {
		d.CourierID = courierID
	}
	d.UpdatedAt = time.Now().UTC()

	if s.transitions != nil {
		s.transitions.WithLabelValues(string(next)).Inc()
	}
	switch next {
	case domain.StateAssigned:
		s.publisher.Publish(context.WithoutCancel(ctx), notify.AssignedEvent(d))
	case domain.StateDelivered:
		s.publisher.Publish(context.WithoutCancel(ctx), notify.DeliveredEvent(d))
	}

	s.logger.Info("delivery state changed",
		logx.String("event", "delivery_transition"),
		logx.String("safe_id", d.SafeID.String()),
		logx.String("from", string(from)),
		logx.String("to", string(next)),
	)
	return d, nil
}

// Route returns the stored route of a delivery.
func (s *Service) Route(ctx context.Context, safeID uuid.UUID) (*domain.Route, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	r, err := s.routes.GetByDeliverySafeID(ctx, safeID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: route for delivery %s", apperr.NotFound, safeID)
	}
	return r, nil
}

// ListRoutes returns stored routes, optionally filtered by endpoint address.
func (s *Service) ListRoutes(ctx context.Context, address string) ([]*domain.Route, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.routes.List(ctx, address)
}

// ListReady exposes deliveries still waiting for a courier. Used by the
// matching flow.
func (s *Service) ListReady(ctx context.Context) ([]*domain.Delivery, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.ListReady(ctx)
}
