package wire

import (
	"hotel-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRoom(r chi.Router, roomHandler *adaptor.RoomHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", roomHandler.ListRooms)
		r.Get("/available", roomHandler.SearchAvailable)
		r.Get("/{id}", roomHandler.GetRoom)
		r.Get("/{id}/quote", roomHandler.Quote)
		r.Get("/{id}/bookings", roomHandler.Schedule)
	})
}
