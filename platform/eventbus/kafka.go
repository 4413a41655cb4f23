package eventbus

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// KafkaForwarder is a Subscriber that republishes every delivered event onto a Kafka topic so
// out-of-process consumers (notification-svc) can fan out independently of the in-process
// subscriber set. Grounded on rate-svc's KafkaPublisher.
type KafkaForwarder struct {
	Writer *kafka.Writer
}

func NewKafkaForwarder(writer *kafka.Writer) *KafkaForwarder {
	return &KafkaForwarder{Writer: writer}
}

func (f *KafkaForwarder) Forward(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.AggregateID),
		Value: payload,
	})
}
