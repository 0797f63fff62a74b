package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"go.uber.org/zap"
)

const (
	headerEventID   = "event-id"
	headerEventType = "event-type"
	headerSource    = "source"
)

var ErrPublisherClosed = errors.New("publisher is closed")

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	source string
	log    *zap.Logger

	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(brokers []string, topic, source string, log *zap.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // keeps a booking's events ordered
		RequiredAcks: kafka.RequireAll,
		Compression:  compress.Snappy,
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Sugar().Errorf(msg, args...)
		}),
	}

	return newKafkaPublisher(writer, source, log), nil
}

func newKafkaPublisher(writer messageWriter, source string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		source: source,
		log:    log.With(zap.String("publisher", "kafka")),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := p.buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}

	p.log.Debug("Event published",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.BookingID.String()),
	)
	return nil
}

func (p *KafkaPublisher) buildMessage(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.BookingID.String()),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventID, Value: []byte(event.ID.String())},
			{Key: headerEventType, Value: []byte(event.Type)},
			{Key: headerSource, Value: []byte(p.source)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.writer.Close()
}
