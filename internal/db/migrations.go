package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS lots (
		id               UUID PRIMARY KEY,
		name             TEXT NOT NULL,
		address          TEXT,
		timezone         TEXT NOT NULL DEFAULT 'UTC',
		maintenance_mode BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS floors (
		id         UUID PRIMARY KEY,
		lot_id     UUID NOT NULL REFERENCES lots(id),
		label      TEXT NOT NULL,
		ordering   INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_floors_lot_ordering ON floors(lot_id, ordering);`,
	`CREATE TABLE IF NOT EXISTS spots (
		id         UUID PRIMARY KEY,
		floor_id   UUID NOT NULL REFERENCES floors(id),
		code       TEXT NOT NULL,
		size       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'AVAILABLE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_spots_floor_code ON spots(floor_id, code);`,
	`CREATE INDEX IF NOT EXISTS idx_spots_floor_size_status ON spots(floor_id, size, status);`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		id            UUID PRIMARY KEY,
		license_plate TEXT NOT NULL,
		size          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_vehicles_license_plate ON vehicles(license_plate);`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id         UUID PRIMARY KEY,
		lot_id     UUID NOT NULL REFERENCES lots(id),
		spot_id    UUID NOT NULL REFERENCES spots(id),
		vehicle_id UUID NOT NULL REFERENCES vehicles(id),
		entry_at   TIMESTAMPTZ NOT NULL,
		exit_at    TIMESTAMPTZ,
		status     TEXT NOT NULL DEFAULT 'OPEN',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	// The database, not only the pre-check in the session service,
	// enforces one OPEN ticket per (vehicle, lot).
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_tickets_open_vehicle_lot
		ON tickets(vehicle_id, lot_id) WHERE status = 'OPEN';`,
	`CREATE TABLE IF NOT EXISTS payments (
		id           UUID PRIMARY KEY,
		ticket_id    UUID NOT NULL REFERENCES tickets(id),
		amount_minor BIGINT NOT NULL,
		currency     TEXT NOT NULL,
		method       TEXT NOT NULL,
		status       TEXT NOT NULL,
		reference    TEXT,
		paid_at      TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_payments_ticket ON payments(ticket_id);`,
	`CREATE TABLE IF NOT EXISTS rate_cards (
		id             UUID PRIMARY KEY,
		name           TEXT NOT NULL,
		currency       TEXT NOT NULL,
		effective_from TIMESTAMPTZ NOT NULL,
		effective_to   TIMESTAMPTZ,
		lot_id         UUID REFERENCES lots(id),
		floor_id       UUID REFERENCES floors(id),
		size           TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS rate_rules (
		id             BIGSERIAL PRIMARY KEY,
		rate_card_id   UUID NOT NULL REFERENCES rate_cards(id),
		start_minute   INT NOT NULL,
		end_minute     INT,
		price_per_unit BIGINT NOT NULL,
		unit           TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS availability_events (
		id          BIGSERIAL PRIMARY KEY,
		type        TEXT NOT NULL,
		lot_id      UUID NOT NULL,
		floor_id    UUID NOT NULL,
		spot_id     UUID NOT NULL,
		payload     JSONB,
		occurred_at TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_availability_events_lot ON availability_events(lot_id, occurred_at);`,
	// Demo lot so a fresh database can serve traffic immediately.
	`DO $$
	DECLARE
		demo_lot UUID := '6f9f9d5e-0d2c-4a52-9e9b-2f4a6d8c1a01';
		ground   UUID := '6f9f9d5e-0d2c-4a52-9e9b-2f4a6d8c1a02';
		basement UUID := '6f9f9d5e-0d2c-4a52-9e9b-2f4a6d8c1a03';
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM lots WHERE id = demo_lot) THEN
			INSERT INTO lots (id, name, address, timezone)
				VALUES (demo_lot, 'Central Plaza', '1 Plaza Road', 'Asia/Kolkata');
			INSERT INTO floors (id, lot_id, label, ordering) VALUES
				(ground, demo_lot, 'G', 1),
				(basement, demo_lot, 'B1', 2);
			INSERT INTO spots (id, floor_id, code, size) VALUES
				(uuid_generate_v4(), ground, 'G-01', 'SMALL'),
				(uuid_generate_v4(), ground, 'G-02', 'MEDIUM'),
				(uuid_generate_v4(), ground, 'G-03', 'LARGE'),
				(uuid_generate_v4(), ground, 'G-04', 'EV'),
				(uuid_generate_v4(), basement, 'B1-01', 'MEDIUM'),
				(uuid_generate_v4(), basement, 'B1-02', 'MEDIUM'),
				(uuid_generate_v4(), basement, 'B1-03', 'BIKE');
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
