// Package storage is the C3 transactional store: one PostgresRepository backed by
// database/sql + lib/pq, following dish-svc's storage.PostgresRepository shape (plain
// methods, no ORM, explicit SQL). All multi-row mutations run inside platform/dbtx.WithTx.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// EnsureSchema creates every table §6 names. Idempotent: safe to call on every startup,
// the way dish-svc's PostgresRepository.EnsureSchema patches columns in place.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS principal (
			id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			external_identity_id TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS foodcourt (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			timezone TEXT NOT NULL DEFAULT 'UTC'
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant (
			id TEXT PRIMARY KEY,
			owner_principal_id TEXT NOT NULL REFERENCES principal(id),
			foodcourt_id TEXT NOT NULL REFERENCES foodcourt(id) ON DELETE RESTRICT,
			commission_rate DOUBLE PRECISION NOT NULL,
			published_flag BOOLEAN NOT NULL DEFAULT false,
			timezone TEXT NOT NULL DEFAULT 'UTC'
		)`,
		`CREATE TABLE IF NOT EXISTS restaurant_table (
			id TEXT PRIMARY KEY,
			foodcourt_id TEXT NOT NULL REFERENCES foodcourt(id) ON DELETE RESTRICT
		)`,
		`CREATE TABLE IF NOT EXISTS order_number_counter (
			restaurant_id TEXT NOT NULL,
			local_date TEXT NOT NULL,
			value INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (restaurant_id, local_date)
		)`,
		`CREATE TABLE IF NOT EXISTS "order" (
			id TEXT PRIMARY KEY,
			order_number TEXT NOT NULL,
			restaurant_id TEXT NOT NULL REFERENCES restaurant(id) ON DELETE RESTRICT,
			table_id TEXT REFERENCES restaurant_table(id),
			customer_principal_id TEXT REFERENCES principal(id),
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			delivery_type TEXT NOT NULL,
			total_minor BIGINT NOT NULL,
			status TEXT NOT NULL,
			special_instructions TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (restaurant_id, order_number)
		)`,
		`CREATE TABLE IF NOT EXISTS order_item (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES "order"(id) ON DELETE RESTRICT,
			product_id TEXT NOT NULL,
			variant_label TEXT,
			quantity INTEGER NOT NULL,
			unit_price_minor BIGINT NOT NULL,
			line_total_minor BIGINT NOT NULL,
			special_instructions TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS payment (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE REFERENCES "order"(id) ON DELETE RESTRICT,
			amount_minor BIGINT NOT NULL,
			currency TEXT NOT NULL,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			commission_minor BIGINT NOT NULL,
			net_minor BIGINT NOT NULL,
			provider_ref TEXT,
			redirect_url TEXT,
			provider_metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS refund (
			id TEXT PRIMARY KEY,
			payment_id TEXT NOT NULL REFERENCES payment(id) ON DELETE RESTRICT,
			amount_minor BIGINT NOT NULL,
			reason TEXT NOT NULL,
			refund_ref TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS processed_webhook (
			provider TEXT NOT NULL,
			provider_event_id TEXT NOT NULL,
			processed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (provider, provider_event_id)
		)`,
		`CREATE TABLE IF NOT EXISTS employee (
			id TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL REFERENCES restaurant(id) ON DELETE RESTRICT,
			principal_id TEXT REFERENCES principal(id),
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT,
			employee_role TEXT NOT NULL,
			hourly_wage_minor BIGINT,
			active_flag BOOLEAN NOT NULL DEFAULT true
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS employee_restaurant_phone_active_idx
			ON employee (restaurant_id, phone) WHERE active_flag`,
		`CREATE TABLE IF NOT EXISTS shift (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employee(id) ON DELETE RESTRICT,
			scheduled_start TIMESTAMPTZ NOT NULL,
			scheduled_end TIMESTAMPTZ NOT NULL,
			actual_start TIMESTAMPTZ,
			actual_end TIMESTAMPTZ,
			break_minutes INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS invite_token (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL UNIQUE,
			restaurant_id TEXT NOT NULL REFERENCES restaurant(id) ON DELETE RESTRICT,
			granted_role TEXT NOT NULL,
			hourly_wage_minor BIGINT,
			expires_at TIMESTAMPTZ NOT NULL,
			max_uses INTEGER NOT NULL,
			used_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			created_by_principal_id TEXT NOT NULL REFERENCES principal(id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func unmarshalMetadata(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
