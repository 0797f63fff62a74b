package adaptor

import (
	"net/http"

	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payments (optional auth)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.service.CreatePayment(r.Context(), optionalUser(r), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment successful", result)
}

// GetBookingPayment handles GET /api/admin/bookings/{id}/payment (admin)
func (h *PaymentHandler) GetBookingPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	payment, err := h.service.GetBookingPayment(r.Context(), bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking payment")
		return
	}

	utils.ResponseSuccess(w, "success", payment)
}

// ListPayments handles GET /api/admin/payments (admin)
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	req := request.NewPaginatedRequest(r.URL.Query())

	payments, err := h.service.ListPayments(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}
