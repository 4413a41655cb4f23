package eventbus

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Subscriber receives events at-least-once; it must be idempotent keyed by event.ID (spec §4.2).
type Subscriber func(ctx context.Context, ev Event) error

// Dispatcher polls the outbox in commit order and fans events out to registered subscribers.
// It holds a singleton lease row so at most one replica dispatches at a time (spec §5).
type Dispatcher struct {
	db        *sql.DB
	leaseName string
	holder    string
	poll      time.Duration

	mu          sync.Mutex
	subscribers map[string]Subscriber
}

func NewDispatcher(db *sql.DB, leaseName, holder string, poll time.Duration) *Dispatcher {
	return &Dispatcher{
		db:          db,
		leaseName:   leaseName,
		holder:      holder,
		poll:        poll,
		subscribers: make(map[string]Subscriber),
	}
}

// Subscribe registers a named, idempotent handler. Returns an unsubscribe func; in-flight
// deliveries to it still complete (spec §4.2 "Cancellation").
func (d *Dispatcher) Subscribe(name string, sub Subscriber) (unsubscribe func()) {
	d.mu.Lock()
	d.subscribers[name] = sub
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.subscribers, name)
		d.mu.Unlock()
	}
}

// Run drives the dispatch loop until ctx is cancelled. One wall-clock ticker per spec §9.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.acquireLease(ctx) {
				d.dispatchOnce(ctx)
			}
		}
	}
}

func (d *Dispatcher) acquireLease(ctx context.Context) bool {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO leases (name, holder, heartbeat_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET holder = EXCLUDED.holder, heartbeat_at = now()
		WHERE leases.holder = EXCLUDED.holder OR leases.heartbeat_at < now() - interval '30 seconds'
	`, d.leaseName, d.holder)
	if err != nil {
		log.Printf("[eventbus] lease acquire error: %v", err)
		return false
	}
	rows, _ := res.RowsAffected()
	return rows > 0
}

func (d *Dispatcher) dispatchOnce(ctx context.Context) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, aggregate_id, kind, payload, created_at
		FROM outbox
		WHERE dispatched_at IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT 100`)
	if err != nil {
		log.Printf("[eventbus] poll error: %v", err)
		return
	}
	defer rows.Close()

	var pending []Event
	for rows.Next() {
		var ev Event
		var raw []byte
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.Kind, &raw, &ev.CreatedAt); err != nil {
			continue
		}
		_ = json.Unmarshal(raw, &ev.Payload)
		pending = append(pending, ev)
	}

	for _, ev := range pending {
		d.deliver(ctx, ev)
		if _, err := d.db.ExecContext(ctx, `UPDATE outbox SET dispatched_at = now() WHERE id = $1`, ev.ID); err != nil {
			log.Printf("[eventbus] mark dispatched error: %v", err)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev Event) {
	d.mu.Lock()
	subs := make([]Subscriber, 0, len(d.subscribers))
	for _, s := range d.subscribers {
		subs = append(subs, s)
	}
	d.mu.Unlock()

	for _, sub := range subs {
		if err := sub(ctx, ev); err != nil {
			log.Printf("[eventbus] subscriber error for event %s (%s): %v", ev.ID, ev.Kind, err)
		}
	}
}
