package courier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"poslito/internal/apperr"
	"poslito/internal/domain"
	"poslito/internal/logx"
	"poslito/internal/matching"
)

// RegisterInput carries the courier registration fields. Photo references
// are required and write-only.
type RegisterInput struct {
	VehicleType  domain.SizeType
	HomeAddress  string
	Coordinates  *domain.Coordinates
	IDPhotoFront string
	IDPhotoBack  string
	DLPhotoFront string
	DLPhotoBack  string
}

// Service coordinates courier business logic and orchestrates repository calls.
type Service struct {
	repo             courierRepository
	deliveries       readyLister
	positions        positionStore
	engine           matcher
	operationTimeout time.Duration
	logger           logx.Logger
}

// NewService creates and configures a courier Service. positions may be nil.
func NewService(r courierRepository, deliveries readyLister, positions positionStore, engine matcher, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		repo:             r,
		deliveries:       deliveries,
		positions:        positions,
		engine:           engine,
		operationTimeout: timeout,
		logger:           logger,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

func validateRegister(in *RegisterInput) error {
	if !in.VehicleType.Valid() {
		return apperr.NewValidationError("vehicle_type", "must be one of small, medium, large", string(domain.SizeMedium))
	}
	if in.Coordinates != nil && !in.Coordinates.Valid() {
		return apperr.NewValidationError("coordinates", "latitude must be within [-90, 90] and longitude within [-180, 180]", "")
	}
	for field, value := range map[string]string{
		"id_photo_front": in.IDPhotoFront,
		"id_photo_back":  in.IDPhotoBack,
		"dl_photo_front": in.DLPhotoFront,
		"dl_photo_back":  in.DLPhotoBack,
	} {
		if strings.TrimSpace(value) == "" {
			return apperr.NewValidationError(field, "identity document photo is required", "")
		}
	}
	return nil
}

// Register adds the courier capability to the calling account. An account
// can hold at most one courier record.
func (s *Service) Register(ctx context.Context, identity domain.Identity, in RegisterInput) (*domain.Courier, error) {
	if identity.Anonymous() {
		return nil, fmt.Errorf("%w: authentication required", apperr.Forbidden)
	}
	if identity.IsCourier() {
		return nil, fmt.Errorf("%w: account already has a courier", apperr.Conflict)
	}
	if err := validateRegister(&in); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c := &domain.Courier{
		AccountID:    identity.AccountID,
		PersonID:     identity.PersonID,
		VehicleType:  in.VehicleType,
		HomeAddress:  in.HomeAddress,
		Coordinates:  in.Coordinates,
		IDPhotoFront: in.IDPhotoFront,
		IDPhotoBack:  in.IDPhotoBack,
		DLPhotoFront: in.DLPhotoFront,
		DLPhotoBack:  in.DLPhotoBack,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("courier registered",
		logx.String("event", "courier_registered"),
		logx.String("courier_id", c.ID.String()),
		logx.String("vehicle", string(c.VehicleType)),
	)
	return c, nil
}

// GetByAccount returns the courier capability of an account.
func (s *Service) GetByAccount(ctx context.Context, identity domain.Identity) (*domain.Courier, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	c, err := s.repo.GetByAccount(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: account has no courier", apperr.NotFound)
	}
	return c, nil
}

// UpdatePosition stores the courier's current coordinates in both the durable
// record and the live position store.
func (s *Service) UpdatePosition(ctx context.Context, identity domain.Identity, coords domain.Coordinates) error {
	if !identity.IsCourier() {
		return fmt.Errorf("%w: courier capability required", apperr.Forbidden)
	}
	if !coords.Valid() {
		return apperr.NewValidationError("coordinates", "latitude must be within [-90, 90] and longitude within [-180, 180]", "")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdateCoordinates(ctx, identity.Courier.ID, coords)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: courier %s", apperr.NotFound, identity.Courier.ID)
	}

	if s.positions != nil {
		if err := s.positions.SetPosition(ctx, identity.Courier.ID, coords); err != nil {
			s.logger.Warn("update live position", logx.String("courier_id", identity.Courier.ID.String()), logx.Err(err))
		}
	}
	return nil
}

// Closest returns the ranked shortlist of ready deliveries for the calling
// courier. The courier's position comes from their durable record, falling
// back to the live position store; without either the list keeps its stable
// order.
func (s *Service) Closest(ctx context.Context, identity domain.Identity) ([]matching.Candidate, error) {
	if !identity.IsCourier() {
		return nil, fmt.Errorf("%w: courier capability required", apperr.Forbidden)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	point := identity.Courier.Coordinates
	if point == nil && s.positions != nil {
		live, err := s.positions.GetPosition(ctx, identity.Courier.ID)
		switch {
		case err == nil:
			point = &live
		case !errors.Is(err, apperr.NotFound):
			s.logger.Warn("load live position", logx.String("courier_id", identity.Courier.ID.String()), logx.Err(err))
		}
	}

	ready, err := s.deliveries.ListReady(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Match(ctx, identity.Courier.VehicleType, point, ready), nil
}
