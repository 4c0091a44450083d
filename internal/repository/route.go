package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"poslito/internal/domain"
)

// RouteRepo represents route repository.
type RouteRepo struct{ db *pgxpool.Pool }

// NewRouteRepo creates a new RouteRepo.
func NewRouteRepo(db *pgxpool.Pool) *RouteRepo { return &RouteRepo{db: db} }

func scanRoute(row rowScanner) (*domain.Route, error) {
	var (
		r     domain.Route
		steps []byte
	)
	if err := row.Scan(&r.ID, &r.DeliveryID, &r.Polyline, &steps, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(steps, &r.Steps); err != nil {
		return nil, fmt.Errorf("decode route steps: %w", err)
	}
	return &r, nil
}

// GetByDeliverySafeID - returns the route of a delivery by the delivery's
// public safe id.
func (r *RouteRepo) GetByDeliverySafeID(ctx context.Context, safeID uuid.UUID) (*domain.Route, error) {
	route, err := scanRoute(r.db.QueryRow(ctx, `
		SELECT r.id, r.delivery_id, r.polyline, r.steps, r.created_at, r.updated_at
		FROM routes r
		JOIN deliveries d ON d.id = r.delivery_id
		WHERE d.safe_id = $1
	`, safeID))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route for delivery %s: %w", safeID, err)
	}
	return route, nil
}

// List returns routes, optionally filtered by a substring of either endpoint
// address of the owning delivery.
func (r *RouteRepo) List(ctx context.Context, address string) ([]*domain.Route, error) {
	q := `
		SELECT r.id, r.delivery_id, r.polyline, r.steps, r.created_at, r.updated_at
		FROM routes r
		JOIN deliveries d ON d.id = r.delivery_id
		JOIN places pp ON pp.place_id = d.pickup_place_id
		JOIN places dp ON dp.place_id = d.delivery_place_id`
	args := make([]any, 0, 1)
	if address != "" {
		q += ` WHERE pp.formatted_address ILIKE $1 OR dp.formatted_address ILIKE $1`
		args = append(args, "%"+address+"%")
	}
	q += ` ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Route, 0)
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, route)
	}
	return out, rows.Err()
}
