// Package notify renders a domain event into the message that gets sent to whoever the core
// forgets about once it emits (spec.md §1's "the core emits and forgets").
package notify

import (
	"fmt"
	"log"

	"github.com/foodcourt-platform/platform/eventbus"
)

// Sender delivers a rendered notification. LogSender is the only implementation here; a real
// deployment would swap in SMS/push/email providers behind the same interface.
type Sender interface {
	Send(aggregateID, message string) error
}

type LogSender struct{}

func (LogSender) Send(aggregateID, message string) error {
	log.Printf("[notification-svc] %s: %s", aggregateID, message)
	return nil
}

// Render produces the human-facing message for an event kind, or ("", false) for kinds this
// subsystem doesn't notify on.
func Render(ev eventbus.Event) (string, bool) {
	switch ev.Kind {
	case eventbus.OrderCreated:
		return fmt.Sprintf("order %s received", ev.AggregateID), true
	case eventbus.OrderStatusChanged:
		status, _ := ev.Payload["to"].(string)
		return fmt.Sprintf("order %s is now %s", ev.AggregateID, status), true
	case eventbus.OrderCancelled:
		return fmt.Sprintf("order %s was cancelled", ev.AggregateID), true
	case eventbus.PaymentSettled:
		return fmt.Sprintf("payment %s settled", ev.AggregateID), true
	case eventbus.PaymentFailed:
		return fmt.Sprintf("payment %s failed", ev.AggregateID), true
	case eventbus.PaymentRefunded:
		return fmt.Sprintf("payment %s refunded", ev.AggregateID), true
	case eventbus.ShiftStarted:
		return fmt.Sprintf("shift %s started", ev.AggregateID), true
	case eventbus.ShiftEnded:
		return fmt.Sprintf("shift %s ended", ev.AggregateID), true
	case eventbus.ShiftMissed:
		return fmt.Sprintf("shift %s was missed", ev.AggregateID), true
	case eventbus.InviteConsumed:
		return fmt.Sprintf("employee %s joined through an invite", ev.AggregateID), true
	default:
		return "", false
	}
}
