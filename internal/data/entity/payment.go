package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
)

type Payment struct {
	BaseNoDelete
	BookingID     uuid.UUID     `db:"booking_id"`
	Amount        float64       `db:"amount"`
	Method        PaymentMethod `db:"method"`
	Status        PaymentStatus `db:"status"`
	TransactionID *string       `db:"transaction_id"`

	BookingReference string `db:"reference"`
}
