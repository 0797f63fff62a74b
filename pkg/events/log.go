package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the application log. Used when no broker
// is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("publisher", "log"))}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info("Booking event",
		zap.String("event_id", event.ID.String()),
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.BookingID.String()),
		zap.String("reference", event.Reference),
		zap.String("room_id", event.RoomID.String()),
		zap.String("status", event.Status),
		zap.Float64("amount", event.Amount),
		zap.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
