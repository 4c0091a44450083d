package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"poslito/internal/domain"
	"poslito/internal/ports/deliverytx"
)

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

const deliverySelect = `
	SELECT d.id, d.safe_id,
	       s.id, s.account_id, s.first_name, s.last_name, s.email, s.phone_number,
	       r.id, r.account_id, r.first_name, r.last_name, r.email, r.phone_number,
	       d.receiver_account_id,
	       i.id, i.name, i.description, i.size, i.weight, i.fragile,
	       pp.place_id, pp.formatted_address, pp.country, pp.city, pp.street_address, pp.postal_code, pp.longitude, pp.latitude,
	       dp.place_id, dp.formatted_address, dp.country, dp.city, dp.street_address, dp.postal_code, dp.longitude, dp.latitude,
	       d.courier_id, d.state, d.distance_meters, d.duration_seconds, d.price, d.created_at, d.updated_at
	FROM deliveries d
	JOIN persons s ON s.id = d.sender_id
	JOIN persons r ON r.id = d.receiver_id
	JOIN items i   ON i.id = d.item_id
	JOIN places pp ON pp.place_id = d.pickup_place_id
	JOIN places dp ON dp.place_id = d.delivery_place_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID, &d.SafeID,
		&d.Sender.ID, &d.Sender.AccountID, &d.Sender.FirstName, &d.Sender.LastName, &d.Sender.Email, &d.Sender.PhoneNumber,
		&d.Receiver.ID, &d.Receiver.AccountID, &d.Receiver.FirstName, &d.Receiver.LastName, &d.Receiver.Email, &d.Receiver.PhoneNumber,
		&d.ReceiverAccountID,
		&d.Item.ID, &d.Item.Name, &d.Item.Description, &d.Item.Size, &d.Item.Weight, &d.Item.Fragile,
		&d.PickupPlace.PlaceID, &d.PickupPlace.FormattedAddress, &d.PickupPlace.Country, &d.PickupPlace.City,
		&d.PickupPlace.StreetAddress, &d.PickupPlace.PostalCode, &d.PickupPlace.Coordinates.Longitude, &d.PickupPlace.Coordinates.Latitude,
		&d.DeliveryPlace.PlaceID, &d.DeliveryPlace.FormattedAddress, &d.DeliveryPlace.Country, &d.DeliveryPlace.City,
		&d.DeliveryPlace.StreetAddress, &d.DeliveryPlace.PostalCode, &d.DeliveryPlace.Coordinates.Longitude, &d.DeliveryPlace.Coordinates.Latitude,
		&d.CourierID, &d.State, &d.DistanceMeters, &d.DurationSeconds, &d.Price, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID - returns a delivery by its owner-facing id.
func (r *DeliveryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, deliverySelect+` WHERE d.id = $1`, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %s: %w", id, err)
	}
	return d, nil
}

// GetBySafeID - returns a delivery by its public safe id.
func (r *DeliveryRepo) GetBySafeID(ctx context.Context, safeID uuid.UUID) (*domain.Delivery, error) {
	d, err := scanDelivery(r.db.QueryRow(ctx, deliverySelect+` WHERE d.safe_id = $1`, safeID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery by safe id %s: %w", safeID, err)
	}
	return d, nil
}

// ListForPerson returns deliveries the person sent or receives, newest first.
func (r *DeliveryRepo) ListForPerson(ctx context.Context, personID, accountID uuid.UUID) ([]*domain.Delivery, error) {
	rows, err := r.db.Query(ctx,
		deliverySelect+` WHERE d.sender_id = $1 OR d.receiver_id = $1 OR d.receiver_account_id = $2 ORDER BY d.created_at DESC`,
		personID, accountID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries for person %s: %w", personID, err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

// ListReady returns deliveries still waiting for a courier, oldest first.
func (r *DeliveryRepo) ListReady(ctx context.Context) ([]*domain.Delivery, error) {
	rows, err := r.db.Query(ctx, deliverySelect+` WHERE d.state = $1 ORDER BY d.created_at ASC`, domain.StateReady)
	if err != nil {
		return nil, fmt.Errorf("list ready deliveries: %w", err)
	}
	defer rows.Close()
	return collectDeliveries(rows)
}

func collectDeliveries(rows pgx.Rows) ([]*domain.Delivery, error) {
	out := make([]*domain.Delivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CompareAndSetState moves a delivery from one state to another in a single
// statement. The WHERE clause on the expected state makes the write atomic:
// a false result with an existing row means another writer won the race.
// courierID, when set, is stored together with the new state.
func (r *DeliveryRepo) CompareAndSetState(ctx context.Context, id uuid.UUID, from, to domain.DeliveryState, courierID *uuid.UUID) (bool, error) {
	ct, err := r.db.Exec(ctx, `
		UPDATE deliveries
		SET state = $2,
		    courier_id = COALESCE($3, courier_id),
		    updated_at = now()
		WHERE id = $1 AND state = $4
	`, id, to, courierID, from)
	if err != nil {
		return false, fmt.Errorf("transition delivery %s to %s: %w", id, to, err)
	}
	return ct.RowsAffected() > 0, nil
}

// WithTx opens a transaction and executes fn within it.
func (r *DeliveryRepo) WithTx(ctx context.Context, fn func(tx deliverytx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	wrapped := &TxRepo{tx: tx}

	if err := fn(wrapped); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// GetOrCreatePlace inserts the place unless one with the same place id
// already exists, then loads the stored row back into p.
func (r *TxRepo) GetOrCreatePlace(ctx context.Context, p *domain.Place) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO places (place_id, formatted_address, country, city, street_address, postal_code, longitude, latitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (place_id) DO NOTHING
	`, p.PlaceID, p.FormattedAddress, p.Country, p.City, p.StreetAddress, p.PostalCode,
		p.Coordinates.Longitude, p.Coordinates.Latitude)
	if err != nil {
		return fmt.Errorf("insert place %q: %w", p.PlaceID, err)
	}

	err = r.tx.QueryRow(ctx, `
		SELECT formatted_address, country, city, street_address, postal_code, longitude, latitude, created_at
		FROM places WHERE place_id = $1
	`, p.PlaceID).Scan(&p.FormattedAddress, &p.Country, &p.City, &p.StreetAddress, &p.PostalCode,
		&p.Coordinates.Longitude, &p.Coordinates.Latitude, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("load place %q: %w", p.PlaceID, err)
	}
	return nil
}

// GetOrCreatePerson resolves a person by email, creating the row when no
// match exists. The resolved id is written back into p.
func (r *TxRepo) GetOrCreatePerson(ctx context.Context, p *domain.Person) error {
	var (
		id        uuid.UUID
		accountID *uuid.UUID
	)
	err := r.tx.QueryRow(ctx,
		`SELECT id, account_id FROM persons WHERE email = $1 LIMIT 1`, p.Email,
	).Scan(&id, &accountID)
	switch {
	case err == nil:
		p.ID = id
		if p.AccountID == nil {
			p.AccountID = accountID
		}
		return nil
	case !IsNotFound(err):
		return fmt.Errorf("find person by email: %w", err)
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err = r.tx.Exec(ctx, `
		INSERT INTO persons (id, account_id, first_name, last_name, email, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.AccountID, p.FirstName, p.LastName, p.Email, p.PhoneNumber)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// FindAccountIDByEmail resolves a registered account by email, nil when the
// address is not linked to any account.
func (r *TxRepo) FindAccountIDByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	var accountID uuid.UUID
	err := r.tx.QueryRow(ctx,
		`SELECT account_id FROM persons WHERE email = $1 AND account_id IS NOT NULL LIMIT 1`, email,
	).Scan(&accountID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &accountID, nil
}

// InsertItem - inserts a new item.
func (r *TxRepo) InsertItem(ctx context.Context, item *domain.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	_, err := r.tx.Exec(ctx, `
		INSERT INTO items (id, name, description, size, weight, fragile)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.Name, item.Description, item.Size, item.Weight, item.Fragile)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// InsertDelivery - inserts a new delivery.
func (r *TxRepo) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO deliveries (id, safe_id, sender_id, receiver_id, receiver_account_id, item_id,
		                        pickup_place_id, delivery_place_id, courier_id, state,
		                        distance_meters, duration_seconds, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, d.ID, d.SafeID, d.Sender.ID, d.Receiver.ID, d.ReceiverAccountID, d.Item.ID,
		d.PickupPlace.PlaceID, d.DeliveryPlace.PlaceID, d.CourierID, d.State,
		d.DistanceMeters, d.DurationSeconds, d.Price,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// InsertRoute - inserts the computed route of a delivery.
func (r *TxRepo) InsertRoute(ctx context.Context, route *domain.Route) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	steps, err := json.Marshal(route.Steps)
	if err != nil {
		return fmt.Errorf("encode route steps: %w", err)
	}
	err = r.tx.QueryRow(ctx, `
		INSERT INTO routes (id, delivery_id, polyline, steps)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, route.ID, route.DeliveryID, route.Polyline, steps).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}
