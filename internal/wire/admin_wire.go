package wire

import (
	"hotel-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, h *adaptor.Handler, g guards) {
	// ==================== ADMIN ROUTES ====================
	// Require both authentication AND an admin role
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.admin)

		r.Get("/dashboard", h.Dashboard.GetDashboard)
		r.Post("/currency/refresh", h.Currency.Refresh)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.Room.CreateRoom)
			r.Put("/{id}", h.Room.UpdateRoom)
			r.Patch("/{id}/availability", h.Room.SetAvailability)
			r.Delete("/{id}", h.Room.DeleteRoom)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", h.Booking.ListBookings)
			r.Get("/{id}", h.Booking.GetBookingByID)
			r.Put("/{id}/status", h.Booking.UpdateBookingStatus)
			r.Get("/{id}/payment", h.Payment.GetBookingPayment)
		})

		r.Get("/payments", h.Payment.ListPayments)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.User.ListUsers)
			r.Patch("/{id}/active", h.User.SetUserActive)
			r.Delete("/{id}", h.User.DeleteUser)

			// role changes are reserved for super admins
			r.With(g.superAdmin).Put("/{id}/role", h.User.UpdateUserRole)
		})
	})

	// ==================== PUBLIC CURRENCY ====================
	r.Get("/api/currency/rates", h.Currency.Rates)
}
