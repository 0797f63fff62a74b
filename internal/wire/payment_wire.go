package wire

import (
	"hotel-reservation/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, g guards) {
	r.With(g.optional, g.idempotency).Post("/api/payments", paymentHandler.CreatePayment)
}
