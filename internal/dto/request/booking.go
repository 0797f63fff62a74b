package request

type CreateBookingRequest struct {
	RoomID          string   `json:"room_id" validate:"required,uuid"`
	CheckIn         string   `json:"check_in" validate:"required"`
	CheckOut        string   `json:"check_out" validate:"required"`
	Guests          int      `json:"guests" validate:"required,gte=1"`
	GuestName       string   `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	GuestEmail      string   `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone      string   `json:"guest_phone,omitempty" validate:"omitempty,min=6,max=30"`
	SpecialRequests *string  `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	TotalPrice      *float64 `json:"total_price,omitempty" validate:"omitempty,gte=0"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type BookingListRequest struct {
	PaginatedRequest
	Status string `validate:"omitempty,oneof=pending confirmed cancelled"`
	RoomID string `validate:"omitempty,uuid"`
}
