package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"poslito/internal/apperr"
	"poslito/internal/domain"
)

// PositionStore keeps the live position of each courier in Redis. Positions
// are hot, high-churn data; they expire on their own when a courier stops
// reporting instead of lingering in Postgres.
type PositionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPositionStore creates a position store. ttl bounds how long a stale
// position stays visible; zero means one hour.
func NewPositionStore(client *redis.Client, ttl time.Duration) *PositionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PositionStore{client: client, ttl: ttl}
}

func positionKey(courierID uuid.UUID) string {
	return "courier:position:" + courierID.String()
}

type storedPosition struct {
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	At        time.Time `json:"at"`
}

// SetPosition stores the courier's latest coordinates.
func (s *PositionStore) SetPosition(ctx context.Context, courierID uuid.UUID, coords domain.Coordinates) error {
	value, err := json.Marshal(storedPosition{
		Longitude: coords.Longitude,
		Latitude:  coords.Latitude,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	if err := s.client.Set(ctx, positionKey(courierID), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("store position for courier %s: %w", courierID, err)
	}
	return nil
}

// GetPosition returns the courier's latest known coordinates.
func (s *PositionStore) GetPosition(ctx context.Context, courierID uuid.UUID) (domain.Coordinates, error) {
	raw, err := s.client.Get(ctx, positionKey(courierID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Coordinates{}, fmt.Errorf("%w: no position for courier %s", apperr.NotFound, courierID)
		}
		return domain.Coordinates{}, fmt.Errorf("load position for courier %s: %w", courierID, err)
	}
	var p storedPosition
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode position for courier %s: %w", courierID, err)
	}
	return domain.Coordinates{Longitude: p.Longitude, Latitude: p.Latitude}, nil
}
