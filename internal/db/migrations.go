package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'service_category') THEN
			CREATE TYPE service_category AS ENUM ('PHOTOGRAPHY', 'VIDEOGRAPHY', 'DJ', 'PHOTOBOOTH');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'schedule_mode') THEN
			CREATE TYPE schedule_mode AS ENUM ('FIXED', 'CUSTOM');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('BOOKED', 'PARTIALLY_PAID', 'PAID_IN_FULL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		state VARCHAR(32) NOT NULL DEFAULT '',
		tax_rate_bps BIGINT NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS package_options (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		category service_category NOT NULL,
		name VARCHAR(128) NOT NULL,
		price_cents BIGINT NOT NULL,
		included_hours INT NOT NULL DEFAULT 0,
		sort_order INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS staff_options (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		category service_category NOT NULL,
		name VARCHAR(128) NOT NULL,
		price_cents BIGINT NOT NULL,
		hours INT NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS overtime_rates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		category service_category NOT NULL,
		role VARCHAR(128) NOT NULL,
		hourly_rate_cents BIGINT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS addon_options (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		price_cents BIGINT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(128) NOT NULL,
		price_cents BIGINT NOT NULL,
		taxable BOOLEAN NOT NULL DEFAULT TRUE,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS discount_options (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		label VARCHAR(160) NOT NULL,
		amount_cents BIGINT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE
	);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		client_name VARCHAR(160) NOT NULL,
		client_email VARCHAR(160) NOT NULL DEFAULT '',
		client_phone VARCHAR(32) NOT NULL DEFAULT '',
		venue_name VARCHAR(160) NOT NULL DEFAULT '',
		event_date DATE NOT NULL,
		location_id UUID REFERENCES locations(id),
		schedule_mode schedule_mode NOT NULL DEFAULT 'FIXED',
		total_cents BIGINT NOT NULL DEFAULT 0,
		status contract_status NOT NULL DEFAULT 'BOOKED',
		version BIGINT NOT NULL DEFAULT 1,
		addon_id UUID REFERENCES addon_options(id),
		discretionary_discount_id UUID REFERENCES discount_options(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS service_selections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		category service_category NOT NULL,
		package_id UUID REFERENCES package_options(id),
		extra_staff_id UUID REFERENCES staff_options(id),
		UNIQUE (contract_id, category)
	);`,
	`CREATE TABLE IF NOT EXISTS overtime_entries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		selection_id UUID NOT NULL REFERENCES service_selections(id) ON DELETE CASCADE,
		rate_id UUID NOT NULL REFERENCES overtime_rates(id),
		hours INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS product_line_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity >= 1),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS schedule_entries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		position INT NOT NULL,
		description VARCHAR(160) NOT NULL,
		due_date DATE,
		amount_cents BIGINT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		contract_id UUID NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		amount_cents BIGINT NOT NULL,
		method VARCHAR(64) NOT NULL DEFAULT '',
		reference VARCHAR(128) NOT NULL DEFAULT '',
		memo TEXT NOT NULL DEFAULT '',
		purpose VARCHAR(160) NOT NULL DEFAULT '',
		received_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_selections_contract_id ON service_selections (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_overtime_selection_id ON overtime_entries (selection_id);`,
	`CREATE INDEX IF NOT EXISTS idx_line_items_contract_id ON product_line_items (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_contract_position ON schedule_entries (contract_id, position);`,
	`CREATE INDEX IF NOT EXISTS idx_payments_contract_received ON payments (contract_id, received_at);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts (status);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_event_date ON contracts (event_date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
