package eventbus

import "time"

// Kind enumerates the domain event kinds the core emits (spec §4.2).
type Kind string

const (
	OrderCreated       Kind = "OrderCreated"
	OrderStatusChanged Kind = "OrderStatusChanged"
	OrderCancelled     Kind = "OrderCancelled"
	PaymentCreated     Kind = "PaymentCreated"
	PaymentSettled     Kind = "PaymentSettled"
	PaymentFailed      Kind = "PaymentFailed"
	PaymentRefunded    Kind = "PaymentRefunded"
	ShiftStarted       Kind = "ShiftStarted"
	ShiftEnded         Kind = "ShiftEnded"
	ShiftMissed        Kind = "ShiftMissed"
	InviteConsumed     Kind = "InviteConsumed"
)

// Event is one row of the durable outbox (spec §4.2, §6 persisted-state layout).
type Event struct {
	ID          string         `json:"id"`
	AggregateID string         `json:"aggregate_id"`
	Kind        Kind           `json:"kind"`
	Payload     map[string]any `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
}
