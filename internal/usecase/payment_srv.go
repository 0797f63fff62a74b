package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/pkg/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, userID *uuid.UUID, req *request.CreatePaymentRequest) (*response.PaymentResultResponse, error)
	GetBookingPayment(ctx context.Context, bookingID uuid.UUID) (*response.PaymentResponse, error)
	ListPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)
}

type paymentService struct {
	repo      *repository.Repository
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewPaymentService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:      repo,
		publisher: publisher,
		log:       log.With(zap.String("service", "payment")),
		now:       time.Now,
	}
}

// CreatePayment captures the full amount of a pending booking and confirms it.
func (s *paymentService) CreatePayment(ctx context.Context, userID *uuid.UUID, req *request.CreatePaymentRequest) (*response.PaymentResultResponse, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "invalid booking_id")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, newError(ErrNotFound, "booking not found")
	}

	if !canPay(booking, userID, req.Email) {
		return nil, newError(ErrForbidden, "you cannot pay for this booking")
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, newError(ErrConflict, "booking is %s and cannot be paid", booking.Status)
	}
	if !SameAmount(req.Amount, booking.TotalPrice) {
		return nil, newError(ErrPriceMismatch, "price mismatch: expected %.2f", booking.TotalPrice)
	}

	payment := &entity.Payment{
		BaseNoDelete:     entity.NewBaseNoDelete(s.now()),
		BookingID:        booking.ID,
		Amount:           booking.TotalPrice,
		Method:           entity.PaymentMethod(req.Method),
		Status:           entity.PaymentStatusCompleted,
		TransactionID:    req.TransactionID,
		BookingReference: booking.Reference,
	}

	if err := s.repo.Payment.CreateAndConfirm(ctx, payment); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyPaid):
			return nil, newError(ErrConflict, "booking is already paid")
		case errors.Is(err, repository.ErrNotPending):
			return nil, newError(ErrConflict, "booking is no longer pending")
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(ErrNotFound, "booking not found")
		}
		return nil, err
	}

	booking.Status = entity.BookingStatusConfirmed
	booking.UpdatedAt = payment.CreatedAt

	s.log.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("method", req.Method),
		zap.Float64("amount", payment.Amount))

	publish(ctx, s.publisher, s.log, bookingEvent(events.PaymentCompleted, booking))
	publish(ctx, s.publisher, s.log, bookingEvent(events.BookingConfirmed, booking))

	return &response.PaymentResultResponse{
		Payment: response.NewPaymentResponse(payment),
		Booking: response.NewBookingResponse(booking),
	}, nil
}

// canPay allows the owning account, or a guest who knows the contact email.
func canPay(booking *entity.Booking, userID *uuid.UUID, email string) bool {
	if booking.UserID != nil {
		return userID != nil && *booking.UserID == *userID
	}
	return email != "" && strings.EqualFold(strings.TrimSpace(email), booking.GuestEmail)
}

func (s *paymentService) GetBookingPayment(ctx context.Context, bookingID uuid.UUID) (*response.PaymentResponse, error) {
	payment, err := s.repo.Payment.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, newError(ErrNotFound, "no payment for this booking")
	}

	resp := response.NewPaymentResponse(payment)
	return &resp, nil
}

func (s *paymentService) ListPayments(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	payments, err := s.repo.Payment.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Payment.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		data = append(data, response.NewPaymentResponse(p))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}
