package entity

import "time"

const day = 24 * time.Hour

// DateRange is a half-open stay [CheckIn, CheckOut).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewDateRange truncates both ends to UTC midnight.
func NewDateRange(checkIn, checkOut time.Time) DateRange {
	return DateRange{CheckIn: StartOfDay(checkIn), CheckOut: StartOfDay(checkOut)}
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights counts calendar days between check-in and check-out.
func (r DateRange) Nights() int {
	return int(StartOfDay(r.CheckOut).Sub(StartOfDay(r.CheckIn)) / day)
}

// Overlaps treats ranges as half-open so a check-out day may be another
// stay's check-in day.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && r.CheckOut.After(other.CheckIn)
}
