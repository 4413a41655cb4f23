package eventbus

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// Append inserts one outbox row inside the caller's open transaction — the event write and the
// business write share one commit boundary (spec §4.2's transactional outbox pattern).
func Append(ctx context.Context, tx *sql.Tx, aggregateID string, kind Kind, payload map[string]any) (Event, error) {
	ev := Event{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		Kind:        kind,
		Payload:     payload,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO outbox (id, aggregate_id, kind, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		ev.ID, ev.AggregateID, string(ev.Kind), raw,
	).Scan(&ev.CreatedAt)
	if err != nil {
		return Event{}, err
	}
	return ev, nil
}

// EnsureSchema creates the outbox and dispatcher-lease tables if absent. Mirrors the teacher's
// EnsureSchema/ALTER-IF-NOT-EXISTS migration style rather than a full migration tool.
func EnsureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS outbox (
			id UUID PRIMARY KEY,
			aggregate_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			dispatched_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS outbox_undispatched_idx ON outbox (created_at) WHERE dispatched_at IS NULL`,
		`CREATE TABLE IF NOT EXISTS leases (
			name TEXT PRIMARY KEY,
			holder TEXT NOT NULL,
			heartbeat_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
