package wire

import (
	"hotel-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, g guards) {
	// ==================== OPTIONAL AUTH ROUTES ====================
	// Guests and signed-in users share these; a signed-in caller is linked
	// to the booking.
	r.With(g.optional, g.idempotency).Post("/api/bookings", bookingHandler.CreateBooking)
	r.Get("/api/bookings/{reference}", bookingHandler.GetByReference)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
		r.Put("/api/user/bookings/{id}/cancel", bookingHandler.CancelOwnBooking)
	})
}
