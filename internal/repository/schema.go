package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables the service needs if they do not exist.
// Statements are idempotent so repeated startups are safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS persons (
			id           UUID PRIMARY KEY,
			account_id   UUID,
			first_name   TEXT NOT NULL,
			last_name    TEXT NOT NULL,
			email        TEXT NOT NULL,
			phone_number TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS persons_email_idx ON persons (email)`,
		`CREATE TABLE IF NOT EXISTS places (
			place_id          TEXT PRIMARY KEY,
			formatted_address TEXT NOT NULL,
			country           TEXT NOT NULL DEFAULT '',
			city              TEXT NOT NULL DEFAULT '',
			street_address    TEXT NOT NULL DEFAULT '',
			postal_code       TEXT NOT NULL DEFAULT '',
			longitude         DOUBLE PRECISION NOT NULL,
			latitude          DOUBLE PRECISION NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id          UUID PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			size        TEXT NOT NULL,
			weight      TEXT NOT NULL,
			fragile     BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS couriers (
			id             UUID PRIMARY KEY,
			account_id     UUID NOT NULL UNIQUE,
			person_id      UUID NOT NULL,
			vehicle_type   TEXT NOT NULL,
			home_address   TEXT NOT NULL DEFAULT '',
			longitude      DOUBLE PRECISION,
			latitude       DOUBLE PRECISION,
			id_photo_front TEXT NOT NULL DEFAULT '',
			id_photo_back  TEXT NOT NULL DEFAULT '',
			dl_photo_front TEXT NOT NULL DEFAULT '',
			dl_photo_back  TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS deliveries (
			id                  UUID PRIMARY KEY,
			safe_id             UUID NOT NULL UNIQUE,
			sender_id           UUID NOT NULL REFERENCES persons(id),
			receiver_id         UUID NOT NULL REFERENCES persons(id),
			receiver_account_id UUID,
			item_id             UUID NOT NULL REFERENCES items(id),
			pickup_place_id     TEXT NOT NULL REFERENCES places(place_id),
			delivery_place_id   TEXT NOT NULL REFERENCES places(place_id),
			courier_id          UUID REFERENCES couriers(id),
			state               TEXT NOT NULL,
			distance_meters     BIGINT NOT NULL DEFAULT 0,
			duration_seconds    BIGINT NOT NULL DEFAULT 0,
			price               NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
			CONSTRAINT deliveries_courier_state CHECK (
				(state = 'ready' AND courier_id IS NULL) OR
				(state <> 'ready' AND courier_id IS NOT NULL)
			)
		)`,
		`CREATE INDEX IF NOT EXISTS deliveries_state_idx ON deliveries (state)`,
		`CREATE TABLE IF NOT EXISTS routes (
			id          UUID PRIMARY KEY,
			delivery_id UUID NOT NULL UNIQUE REFERENCES deliveries(id),
			polyline    TEXT NOT NULL,
			steps       JSONB NOT NULL DEFAULT '[]',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
