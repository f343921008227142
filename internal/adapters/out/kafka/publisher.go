// Package kafka publishes dispatch events to Kafka through sarama.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiffin/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// StatusChangedPublisher sends status-changed events to one topic. Events of
// the same order share a key and therefore a partition, so consumers see them
// in commit order.
type StatusChangedPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewProducerConfig returns the sarama settings the publisher relies on.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Timeout = 5 * time.Second
	config.Producer.Retry.Max = 3
	return config
}

// NewStatusChangedPublisher connects a sync producer to brokers.
func NewStatusChangedPublisher(brokers []string, topic string, log zerolog.Logger) (*StatusChangedPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic is empty")
	}

	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}
	return NewStatusChangedPublisherWithProducer(producer, topic, log), nil
}

// NewStatusChangedPublisherWithProducer wraps an existing producer.
func NewStatusChangedPublisherWithProducer(
	producer sarama.SyncProducer,
	topic string,
	log zerolog.Logger,
) *StatusChangedPublisher {
	return &StatusChangedPublisher{producer: producer, topic: topic, log: log}
}

// PublishStatusChanged sends the events as one batch keyed by order ID.
func (p *StatusChangedPublisher) PublishStatusChanged(ctx context.Context, events ...ports.StatusChangedEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("kafka: encode %s event: %w", event.EntityKind, err)
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(event.OrderID),
			Value: sarama.ByteEncoder(payload),
			Headers: []sarama.RecordHeader{
				{Key: []byte("event_type"), Value: []byte("status_changed")},
				{Key: []byte("entity_kind"), Value: []byte(event.EntityKind)},
			},
			Timestamp: event.OccurredAt,
		})
	}

	if err := p.producer.SendMessages(messages); err != nil {
		return fmt.Errorf("kafka: send to %s: %w", p.topic, err)
	}

	for _, msg := range messages {
		p.log.Debug().
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("status changed event stored")
	}
	return nil
}

// Close flushes and closes the producer.
func (p *StatusChangedPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event. It stands in when Kafka is disabled.
type NopPublisher struct{}

// PublishStatusChanged does nothing.
func (NopPublisher) PublishStatusChanged(context.Context, ...ports.StatusChangedEvent) error {
	return nil
}
