package response

import (
	"time"

	"hotel-reservation/internal/data/entity"
)

type PaymentResponse struct {
	ID               string    `json:"id"`
	BookingID        string    `json:"booking_id"`
	BookingReference string    `json:"booking_reference,omitempty"`
	Amount           float64   `json:"amount"`
	Method           string    `json:"method"`
	Status           string    `json:"status"`
	TransactionID    *string   `json:"transaction_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewPaymentResponse(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID.String(),
		BookingID:        p.BookingID.String(),
		BookingReference: p.BookingReference,
		Amount:           p.Amount,
		Method:           string(p.Method),
		Status:           string(p.Status),
		TransactionID:    p.TransactionID,
		CreatedAt:        p.CreatedAt,
	}
}

type PaymentResultResponse struct {
	Payment PaymentResponse `json:"payment"`
	Booking BookingResponse `json:"booking"`
}
