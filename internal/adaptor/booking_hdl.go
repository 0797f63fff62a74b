package adaptor

import (
	"net/http"

	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (optional auth)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), optionalUser(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetByReference handles GET /api/bookings/{reference}?email=
func (h *BookingHandler) GetByReference(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		utils.ResponseBadRequest(w, "email is required", nil)
		return
	}

	booking, err := h.service.GetByReference(r.Context(), chi.URLParam(r, "reference"), email)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking by reference")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req := request.NewPaginatedRequest(r.URL.Query())
	bookings, err := h.service.ListUserBookings(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// CancelOwnBooking handles PUT /api/user/bookings/{id}/cancel (protected)
func (h *BookingHandler) CancelOwnBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.CancelOwnBooking(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled successfully", booking)
}

// ListBookings handles GET /api/admin/bookings (admin)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BookingListRequest{
		PaginatedRequest: request.NewPaginatedRequest(query),
		Status:           query.Get("status"),
		RoomID:           query.Get("room_id"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/admin/bookings/{id} (admin)
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBookingStatus handles PUT /api/admin/bookings/{id}/status (admin)
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}
