package usecase

import (
	"math"

	"hotel-reservation/internal/data/entity"
)

// Quote is the server side price of a stay.
type Quote struct {
	Nights int
	Rate   float64
	Total  float64
}

// PriceStay computes nights × rate rounded to cents. The stay must last
// between one and maxNights nights.
func PriceStay(stay entity.DateRange, rate float64, maxNights int) (Quote, error) {
	nights := stay.Nights()
	if nights < 1 {
		return Quote{}, newError(ErrInvalidInput, "check-out must be after check-in")
	}
	if maxNights > 0 && nights > maxNights {
		return Quote{}, newError(ErrInvalidInput, "stay cannot exceed %d nights", maxNights)
	}
	if rate <= 0 {
		return Quote{}, newError(ErrInvalidInput, "room has no valid nightly rate")
	}

	return Quote{
		Nights: nights,
		Rate:   rate,
		Total:  RoundCents(float64(nights) * rate),
	}, nil
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// SameAmount compares two money values to the cent.
func SameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
