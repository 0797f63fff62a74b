package repository

import (
	"context"
	"errors"
	"fmt"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	// CreateAndConfirm records a completed payment and confirms the pending
	// booking in one transaction.
	CreateAndConfirm(ctx context.Context, payment *entity.Payment) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Payment, error)
	CountAll(ctx context.Context) (int64, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `p.id, p.booking_id, p.amount, p.method, p.status, p.transaction_id,
	p.created_at, p.updated_at, b.reference`

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.TransactionID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.BookingReference,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) CreateAndConfirm(ctx context.Context, payment *entity.Payment) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var status entity.BookingStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM bookings WHERE id = $1 FOR UPDATE`,
			payment.BookingID,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock booking %s: %w", payment.BookingID, err)
		}

		var paid bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE booking_id = $1 AND status = 'completed')`,
			payment.BookingID,
		).Scan(&paid)
		if err != nil {
			return fmt.Errorf("check payments for booking %s: %w", payment.BookingID, err)
		}
		if paid {
			return ErrAlreadyPaid
		}
		if status != entity.BookingStatusPending {
			return ErrNotPending
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payments (id, booking_id, amount, method, status, transaction_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			payment.ID,
			payment.BookingID,
			payment.Amount,
			payment.Method,
			payment.Status,
			payment.TransactionID,
			payment.CreatedAt,
			payment.UpdatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE bookings SET status = 'confirmed', updated_at = NOW() WHERE id = $1`,
			payment.BookingID,
		)
		return err
	})

	switch {
	case err == nil:
		r.log.Info("Payment completed", zap.String("booking_id", payment.BookingID.String()))
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyPaid), errors.Is(err, ErrNotPending):
		return err
	case pgErrorCode(err) == pgUniqueViolation:
		return ErrAlreadyPaid
	}

	r.log.Error("Failed to record payment",
		zap.Error(err),
		zap.String("booking_id", payment.BookingID.String()),
	)
	return fmt.Errorf("record payment for booking %s: %w", payment.BookingID, err)
}

func (r *paymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE p.booking_id = $1
		ORDER BY (p.status = 'completed') DESC, p.created_at DESC
		LIMIT 1
	`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find payment for booking %s: %w", bookingID, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("find all payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *paymentRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		r.log.Error("Failed to count payments", zap.Error(err))
		return 0, fmt.Errorf("count payments: %w", err)
	}
	return total, nil
}
