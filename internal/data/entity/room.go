package entity

type Room struct {
	Base
	Name          string   `db:"name"`
	Description   *string  `db:"description"`
	PricePerNight float64  `db:"price_per_night"`
	Capacity      int      `db:"capacity"`
	Amenities     []string `db:"amenities"`
	Images        []string `db:"images"`
	IsAvailable   bool     `db:"is_available"`
}

type RoomFilter struct {
	Available   *bool
	MinPrice    *float64
	MaxPrice    *float64
	MinCapacity int
}
