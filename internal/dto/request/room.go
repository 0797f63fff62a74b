package request

type CreateRoomRequest struct {
	Name          string   `json:"name" validate:"required,min=2,max=150"`
	Description   *string  `json:"description,omitempty"`
	PricePerNight float64  `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int      `json:"capacity" validate:"required,gte=1,lte=20"`
	Amenities     []string `json:"amenities" validate:"omitempty,dive,required,max=60"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
}

// UpdateRoomRequest applies only the fields that are set.
type UpdateRoomRequest struct {
	Name          *string   `json:"name,omitempty" validate:"omitempty,min=2,max=150"`
	Description   *string   `json:"description,omitempty"`
	PricePerNight *float64  `json:"price_per_night,omitempty" validate:"omitempty,gt=0"`
	Capacity      *int      `json:"capacity,omitempty" validate:"omitempty,gte=1,lte=20"`
	Amenities     *[]string `json:"amenities,omitempty" validate:"omitempty,dive,required,max=60"`
	Images        *[]string `json:"images,omitempty" validate:"omitempty,dive,url"`
	IsAvailable   *bool     `json:"is_available,omitempty"`
}

type SetRoomAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type RoomListRequest struct {
	PaginatedRequest
	Available *bool
	MinPrice  *float64 `validate:"omitempty,gte=0"`
	MaxPrice  *float64 `validate:"omitempty,gte=0"`
	Capacity  int      `validate:"gte=0"`
	Currency  string   `validate:"omitempty,len=3"`
	Lang      string
}

// StayRequest carries the dates of a search, quote or booking.
type StayRequest struct {
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
	Guests   int    `json:"guests" validate:"gte=0"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
	Lang     string `json:"-"`
}
