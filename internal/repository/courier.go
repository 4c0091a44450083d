package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

// CourierRepo represents courier repository.
type CourierRepo struct{ db *pgxpool.Pool }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(db *pgxpool.Pool) *CourierRepo { return &CourierRepo{db: db} }

const courierSelect = `
	SELECT id, account_id, person_id, vehicle_type, home_address, longitude, latitude,
	       id_photo_front, id_photo_back, dl_photo_front, dl_photo_back, created_at, updated_at
	FROM couriers`

func scanCourier(row rowScanner) (*domain.Courier, error) {
	var (
		c        domain.Courier
		lon, lat *float64
	)
	err := row.Scan(&c.ID, &c.AccountID, &c.PersonID, &c.VehicleType, &c.HomeAddress, &lon, &lat,
		&c.IDPhotoFront, &c.IDPhotoBack, &c.DLPhotoFront, &c.DLPhotoBack, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lon != nil && lat != nil {
		c.Coordinates = &domain.Coordinates{Longitude: *lon, Latitude: *lat}
	}
	return &c, nil
}

// Create - creates a new courier. A second courier on the same account is a
// conflict.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var lon, lat *float64
	if c.Coordinates != nil {
		lon, lat = &c.Coordinates.Longitude, &c.Coordinates.Latitude
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO couriers (id, account_id, person_id, vehicle_type, home_address, longitude, latitude,
		                      id_photo_front, id_photo_back, dl_photo_front, dl_photo_back)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, c.ID, c.AccountID, c.PersonID, c.VehicleType, c.HomeAddress, lon, lat,
		c.IDPhotoFront, c.IDPhotoBack, c.DLPhotoFront, c.DLPhotoBack,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return fmt.Errorf("%w: account already has a courier", apperr.Conflict)
		}
		return fmt.Errorf("create courier: %w", err)
	}
	return nil
}

// Get - returns courier by its ID.
func (r *CourierRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx, courierSelect+` WHERE id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier %s: %w", id, err)
	}
	return c, nil
}

// GetByAccount - returns the courier capability of an account, nil when the
// account has none.
func (r *CourierRepo) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.Courier, error) {
	c, err := scanCourier(r.db.QueryRow(ctx, courierSelect+` WHERE account_id = $1`, accountID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get courier by account %s: %w", accountID, err)
	}
	return c, nil
}

// UpdateCoordinates stores the courier's latest known position and returns
// true if a row was affected.
func (r *CourierRepo) UpdateCoordinates(ctx context.Context, id uuid.UUID, coords domain.Coordinates) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE couriers
		SET longitude = $2, latitude = $3, updated_at = now()
		WHERE id = $1
	`, id, coords.Longitude, coords.Latitude)
	if err != nil {
		return false, fmt.Errorf("update courier coordinates %s: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
