package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// CanTransitionTo reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	}
	return false
}

type Booking struct {
	BaseNoDelete
	Reference       string        `db:"reference"`
	RoomID          uuid.UUID     `db:"room_id"`
	UserID          *uuid.UUID    `db:"user_id"`
	GuestName       string        `db:"guest_name"`
	GuestEmail      string        `db:"guest_email"`
	GuestPhone      string        `db:"guest_phone"`
	CheckIn         time.Time     `db:"check_in"`
	CheckOut        time.Time     `db:"check_out"`
	Guests          int           `db:"guests"`
	TotalPrice      float64       `db:"total_price"`
	Status          BookingStatus `db:"status"`
	SpecialRequests *string       `db:"special_requests"`
	CancelledAt     *time.Time    `db:"cancelled_at"`

	// joined for listings
	RoomName string `db:"room_name"`
}

func (b *Booking) Stay() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

type BookingFilter struct {
	Status *BookingStatus
	RoomID *uuid.UUID
	UserID *uuid.UUID
}
