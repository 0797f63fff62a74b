package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingConfirmed Type = "booking.confirmed"
	BookingCancelled Type = "booking.cancelled"
	PaymentCompleted Type = "payment.completed"
)

// Event is the JSON payload published for booking lifecycle changes.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	RoomID     uuid.UUID `json:"room_id"`
	Status     string    `json:"status"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func New(eventType Type, bookingID, roomID uuid.UUID, reference, status string, amount float64) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		Reference:  reference,
		RoomID:     roomID,
		Status:     status,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}
