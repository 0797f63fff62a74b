package response

import (
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/utils"
)

type BookingResponse struct {
	ID              string     `json:"id"`
	Reference       string     `json:"reference"`
	RoomID          string     `json:"room_id"`
	RoomName        string     `json:"room_name,omitempty"`
	UserID          *string    `json:"user_id,omitempty"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email"`
	GuestPhone      string     `json:"guest_phone,omitempty"`
	CheckIn         string     `json:"check_in"`
	CheckOut        string     `json:"check_out"`
	Nights          int        `json:"nights"`
	Guests          int        `json:"guests"`
	TotalPrice      float64    `json:"total_price"`
	Status          string     `json:"status"`
	SpecialRequests *string    `json:"special_requests,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func NewBookingResponse(b *entity.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID.String(),
		Reference:       b.Reference,
		RoomID:          b.RoomID.String(),
		RoomName:        b.RoomName,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		CheckIn:         b.CheckIn.UTC().Format(utils.DateLayout),
		CheckOut:        b.CheckOut.UTC().Format(utils.DateLayout),
		Nights:          b.Stay().Nights(),
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		SpecialRequests: b.SpecialRequests,
		CancelledAt:     b.CancelledAt,
		CreatedAt:       b.CreatedAt,
	}
	if b.UserID != nil {
		id := b.UserID.String()
		resp.UserID = &id
	}
	return resp
}

func NewBookingResponses(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}
