package request

type CreatePaymentRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid"`
	Method        string  `json:"method" validate:"required,oneof=credit_card debit_card paypal bank_transfer cash"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	TransactionID *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email"`
}
