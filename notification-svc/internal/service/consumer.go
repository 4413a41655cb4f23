package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/foodcourt-platform/notification-svc/internal/notify"
	"github.com/foodcourt-platform/platform/eventbus"
)

// MarkerStore is the idempotency guard this consumer needs: has this event already been
// delivered (spec §4.2: subscribers must be idempotent keyed by event.ID).
type MarkerStore interface {
	Exists(ctx context.Context, eventID string) (bool, error)
	SetMarker(ctx context.Context, eventID string) error
}

// Consumer reads core-svc's forwarded domain-events topic and renders+sends each event, skipping
// any event whose ID already carries a marker, so a redelivery of an event that was sent and
// marked is not sent again. A send that succeeds before its marker write fails is sent again
// on redelivery.
type Consumer struct {
	Reader  *kafka.Reader
	Markers MarkerStore
	Sender  notify.Sender
}

func NewConsumer(reader *kafka.Reader, markers MarkerStore, sender notify.Sender) *Consumer {
	return &Consumer{Reader: reader, Markers: markers, Sender: sender}
}

// Start blocks, reading and processing messages until ctx is cancelled. Read errors are
// logged and the loop goes on reading.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[notification-svc] consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[notification-svc] read error: %v", err)
			continue
		}

		var ev eventbus.Event
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			log.Printf("[notification-svc] malformed event payload: %v", err)
			continue
		}

		if err := c.Process(ctx, ev); err != nil {
			log.Printf("[notification-svc] failed to process event %s (%s): %v", ev.ID, ev.Kind, err)
		}
	}
}

// Process delivers one event, skipping it if already marked processed.
func (c *Consumer) Process(ctx context.Context, ev eventbus.Event) error {
	seen, err := c.Markers.Exists(ctx, ev.ID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	if message, ok := notify.Render(ev); ok {
		if err := c.Sender.Send(ev.AggregateID, message); err != nil {
			return err
		}
	}

	return c.Markers.SetMarker(ctx, ev.ID)
}
