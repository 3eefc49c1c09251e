package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ordering/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

const (
	// Transitions are written one at a time; a full batch is never waited for.
	publishBatchTimeout = 5 * time.Millisecond
	publishTimeout      = 5 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one message per committed transition, keyed by order id so
// a partition sees an order's transitions in commit order.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher connects to the comma-separated brokers list.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	addrs := strings.Split(brokers, ",")
	for i := range addrs {
		addrs[i] = strings.TrimSpace(addrs[i])
	}

	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(addrs...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           publishBatchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

func newKafkaPublisherWithWriter(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// OnTransition publishes a committed transition. The transition is already durable, so
// the write is detached from the caller's cancellation and bounded by publishTimeout.
func (p *KafkaPublisher) OnTransition(ctx context.Context, snapshot order.Snapshot, entry order.HistoryEntry) error {
	body, err := json.Marshal(NewOrderStatusChanged(snapshot, entry))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(snapshot.ID.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "type", Value: []byte(OrderStatusChangedType)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s of order %s: %w", entry.Event, snapshot.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
