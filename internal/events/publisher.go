// Package events publishes domain events about completed sales.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"grocery-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends sale-completed events to a broker.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, event *model.SaleCompletedEvent) error
	Close() error
}

// NewKafkaWriter builds a writer for topic on the given brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}

type kafkaPublisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher backed by writer.
func NewKafkaPublisher(writer MessageWriter, logger zerolog.Logger) Publisher {
	return &kafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "events").Logger(),
	}
}

// MessageKey keys events by order so every event of a sale lands on one partition.
func MessageKey(event *model.SaleCompletedEvent) string {
	return "order-completed-" + event.OrderID.String()
}

func (p *kafkaPublisher) PublishSaleCompleted(ctx context.Context, event *model.SaleCompletedEvent) error {
	if event == nil {
		return fmt.Errorf("sale completed event is nil")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal sale completed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(MessageKey(event)),
		Value: value,
		Time:  event.CompletedAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", event.OrderID.String()).
			Msg("failed to write sale completed event")
		return fmt.Errorf("failed to publish sale completed event: %w", err)
	}

	p.logger.Debug().
		Str("order_id", event.OrderID.String()).
		Str("order_number", event.OrderNumber).
		Msg("sale completed event published")

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishSaleCompleted(context.Context, *model.SaleCompletedEvent) error {
	return nil
}

func (nopPublisher) Close() error { return nil }
