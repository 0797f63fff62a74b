package adaptor

import (
	"net/http"

	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type RoomHandler struct {
	service usecase.RoomService
	log     *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service: service,
		log:     log.With(zap.String("handler", "room")),
	}
}

func stayFromQuery(r *http.Request) *request.StayRequest {
	query := r.URL.Query()
	return &request.StayRequest{
		CheckIn:  query.Get("check_in"),
		CheckOut: query.Get("check_out"),
		Guests:   utils.ParseInt(query.Get("guests"), 1),
		Currency: query.Get("currency"),
		Lang:     language(r),
	}
}

// ListRooms handles GET /api/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.RoomListRequest{
		PaginatedRequest: request.NewPaginatedRequest(query),
		Available:        utils.ParseBool(query.Get("available")),
		MinPrice:         utils.ParseFloat(query.Get("min_price")),
		MaxPrice:         utils.ParseFloat(query.Get("max_price")),
		Capacity:         utils.ParseInt(query.Get("capacity"), 0),
		Currency:         query.Get("currency"),
		Lang:             language(r),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rooms, err := h.service.ListRooms(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

// GetRoom handles GET /api/rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	room, err := h.service.GetRoom(r.Context(), id, r.URL.Query().Get("currency"), language(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get room")
		return
	}

	utils.ResponseSuccess(w, "success", room)
}

// SearchAvailable handles GET /api/rooms/available
func (h *RoomHandler) SearchAvailable(w http.ResponseWriter, r *http.Request) {
	req := stayFromQuery(r)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	rooms, err := h.service.SearchAvailable(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "search available rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

// Quote handles GET /api/rooms/{id}/quote
func (h *RoomHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req := stayFromQuery(r)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	quote, err := h.service.Quote(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, h.log, err, "quote room")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// Schedule handles GET /api/rooms/{id}/bookings
func (h *RoomHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	schedule, err := h.service.Schedule(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get room schedule")
		return
	}

	utils.ResponseSuccess(w, "success", schedule)
}

// CreateRoom handles POST /api/admin/rooms (admin only)
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	room, err := h.service.CreateRoom(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create room")
		return
	}

	utils.ResponseCreated(w, "Room created successfully", room)
}

// UpdateRoom handles PUT /api/admin/rooms/{id} (admin only)
func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateRoomRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update room")
		return
	}

	utils.ResponseSuccess(w, "Room updated successfully", room)
}

// SetAvailability handles PATCH /api/admin/rooms/{id}/availability (admin only)
func (h *RoomHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.SetRoomAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	room, err := h.service.SetAvailability(r.Context(), id, *req.IsAvailable)
	if err != nil {
		handleServiceError(w, h.log, err, "set room availability")
		return
	}

	utils.ResponseSuccess(w, "Room availability updated", room)
}

// DeleteRoom handles DELETE /api/admin/rooms/{id} (admin only)
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRoom(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete room")
		return
	}

	utils.ResponseSuccess(w, "Room deleted successfully", nil)
}
