package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Podhive/MVP/pkg/logger"
)

// KafkaPublisher writes lifecycle events to a single topic. Delivery is
// fire-and-forget from the caller's point of view: a failed write is
// logged, never returned.
type KafkaPublisher struct {
	writer *kafka.Writer
	source string
	log    *logger.Logger
}

func NewKafkaPublisher(brokers []string, topic, source string, log *logger.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	log.Info("Kafka event publisher initialized", "topic", topic, "brokers", brokers)

	return &KafkaPublisher{
		writer: writer,
		source: source,
		log:    log,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event.Payload)
	if err != nil {
		p.log.Error("Failed to encode event payload",
			"event_type", event.Type,
			"key", event.Key,
			"error", err,
		)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(uuid.NewString())},
			{Key: HeaderEventType, Value: []byte(event.Type)},
			{Key: HeaderSource, Value: []byte(p.source)},
			{Key: HeaderTimestamp, Value: []byte(strconv.FormatInt(time.Now().Unix(), 10))},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"error", err,
		)
		return
	}

	p.log.Debug("Event published", "event_type", event.Type, "key", event.Key)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
