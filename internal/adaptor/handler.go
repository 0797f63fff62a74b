package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Room      *RoomHandler
	Booking   *BookingHandler
	Payment   *PaymentHandler
	Dashboard *DashboardHandler
	Currency  *CurrencyHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, config.Session, log),
		User:      NewUserHandler(service.User, log),
		Room:      NewRoomHandler(service.Room, log),
		Booking:   NewBookingHandler(service.Booking, log),
		Payment:   NewPaymentHandler(service.Payment, log),
		Dashboard: NewDashboardHandler(service.Dashboard, log),
		Currency:  NewCurrencyHandler(service.Currency, log),
	}
}

// decodeAndValidate reads a JSON body into req and writes a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// optionalUser returns the signed-in user, or nil for anonymous requests.
func optionalUser(r *http.Request) *uuid.UUID {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &userID
}

// language prefers ?lang= over the Accept-Language header.
func language(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return r.Header.Get("Accept-Language")
}

// handleServiceError maps service error kinds to HTTP responses. Unknown
// errors are logged and hidden behind a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	message := err.Error()
	var svcErr *usecase.Error
	if !errors.As(err, &svcErr) {
		message = ""
	}

	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)

	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrPriceMismatch),
		errors.Is(err, usecase.ErrInvalidTransition):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, message, nil)

	case errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, message)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
