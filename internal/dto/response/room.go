package response

import (
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/utils"
)

type RoomResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	PricePerNight float64   `json:"price_per_night"`
	Currency      string    `json:"currency"`
	DisplayPrice  string    `json:"display_price,omitempty"`
	Capacity      int       `json:"capacity"`
	Amenities     []string  `json:"amenities"`
	Images        []string  `json:"images"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewRoomResponse(room *entity.Room, currency string) RoomResponse {
	amenities := room.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := room.Images
	if images == nil {
		images = []string{}
	}

	return RoomResponse{
		ID:            room.ID.String(),
		Name:          room.Name,
		Description:   room.Description,
		PricePerNight: room.PricePerNight,
		Currency:      currency,
		Capacity:      room.Capacity,
		Amenities:     amenities,
		Images:        images,
		IsAvailable:   room.IsAvailable,
		CreatedAt:     room.CreatedAt,
	}
}

type QuoteResponse struct {
	RoomID        string  `json:"room_id"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	DisplayTotal  string  `json:"display_total,omitempty"`
}

type DateRangeResponse struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type RoomScheduleResponse struct {
	RoomID string              `json:"room_id"`
	Booked []DateRangeResponse `json:"booked"`
}

func NewDateRangeResponse(r entity.DateRange) DateRangeResponse {
	return DateRangeResponse{
		CheckIn:  r.CheckIn.UTC().Format(utils.DateLayout),
		CheckOut: r.CheckOut.UTC().Format(utils.DateLayout),
	}
}
