package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FieldSealer encrypts guest contact details at rest.
type FieldSealer interface {
	Seal(plaintext string) (string, error)
	Open(token string) (string, error)
}

type BookingRepository interface {
	// CreateIfAvailable locks the room, checks for overlapping active
	// bookings and inserts in one transaction.
	CreateIfAvailable(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByReference(ctx context.Context, reference string) (*entity.Booking, error)
	FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter entity.BookingFilter) (int64, error)
	// UpdateStatus moves a booking from one status to another. Returns
	// ErrNotFound when the booking is missing or no longer in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error
	FindRoomSchedule(ctx context.Context, roomID uuid.UUID, from time.Time) ([]entity.DateRange, error)
	CountUpcomingByRoom(ctx context.Context, roomID uuid.UUID, from time.Time) (int64, error)
}

type bookingRepository struct {
	db     database.PgxIface
	sealer FieldSealer
	log    *zap.Logger
}

func NewBookingRepository(db database.PgxIface, sealer FieldSealer, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:     db,
		sealer: sealer,
		log:    log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.reference, b.room_id, b.user_id, b.guest_name, b.guest_email, b.guest_phone,
	b.check_in, b.check_out, b.guests, b.total_price, b.status, b.special_requests, b.cancelled_at,
	b.created_at, b.updated_at, r.name`

func (r *bookingRepository) scanBooking(row rowScanner) (*entity.Booking, error) {
	var b entity.Booking
	var sealedPhone string
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.RoomID,
		&b.UserID,
		&b.GuestName,
		&b.GuestEmail,
		&sealedPhone,
		&b.CheckIn,
		&b.CheckOut,
		&b.Guests,
		&b.TotalPrice,
		&b.Status,
		&b.SpecialRequests,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.RoomName,
	)
	if err != nil {
		return nil, err
	}

	phone, err := r.sealer.Open(sealedPhone)
	if err != nil {
		return nil, fmt.Errorf("open guest phone for booking %s: %w", b.ID, err)
	}
	b.GuestPhone = phone

	return &b, nil
}

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	sealedPhone, err := r.sealer.Seal(booking.GuestPhone)
	if err != nil {
		return fmt.Errorf("seal guest phone: %w", err)
	}

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// serialises concurrent bookings of the same room
		var available bool
		err := tx.QueryRow(ctx,
			`SELECT is_available FROM rooms WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			booking.RoomID,
		).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock room %s: %w", booking.RoomID, err)
		}
		if !available {
			return ErrRoomUnavailable
		}

		var overlapping bool
		err = tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bookings
				WHERE room_id = $1
				  AND status <> 'cancelled'
				  AND check_in < $3
				  AND check_out > $2
			)`,
			booking.RoomID, booking.CheckIn, booking.CheckOut,
		).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("check overlap for room %s: %w", booking.RoomID, err)
		}
		if overlapping {
			return ErrBookingConflict
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, reference, room_id, user_id, guest_name, guest_email, guest_phone,
			                      check_in, check_out, guests, total_price, status, special_requests,
			                      created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			booking.ID,
			booking.Reference,
			booking.RoomID,
			booking.UserID,
			booking.GuestName,
			booking.GuestEmail,
			sealedPhone,
			booking.CheckIn,
			booking.CheckOut,
			booking.Guests,
			booking.TotalPrice,
			booking.Status,
			booking.SpecialRequests,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		return err
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRoomUnavailable), errors.Is(err, ErrBookingConflict):
		return err
	case pgErrorCode(err) == pgExclusionViolation:
		return ErrBookingConflict
	case pgErrorCode(err) == pgUniqueViolation:
		return ErrDuplicate
	}

	r.log.Error("Failed to create booking",
		zap.Error(err),
		zap.String("room_id", booking.RoomID.String()),
		zap.String("reference", booking.Reference),
	)
	return fmt.Errorf("create booking %s: %w", booking.Reference, err)
}

func (r *bookingRepository) findOne(ctx context.Context, where string, arg any) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE ` + where

	booking, err := r.scanBooking(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find booking %v: %w", arg, err)
	}
	return booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, "b.id = $1", id)
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	return r.findOne(ctx, "b.reference = $1", reference)
}

func bookingFilter(filter entity.BookingFilter) *filterBuilder {
	f := &filterBuilder{}
	if filter.Status != nil {
		f.add("b.status = ?", *filter.Status)
	}
	if filter.RoomID != nil {
		f.add("b.room_id = ?", *filter.RoomID)
	}
	if filter.UserID != nil {
		f.add("b.user_id = ?", *filter.UserID)
	}
	return f
}

func (r *bookingRepository) FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	f := bookingFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookings b
		JOIN rooms r ON r.id = b.room_id
		WHERE TRUE%s
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d
	`, bookingColumns, f.where(), f.next(), f.next()+1)

	rows, err := r.db.Query(ctx, query, append(f.args, limit, offset)...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	f := bookingFilter(filter)
	query := `SELECT COUNT(*) FROM bookings b WHERE TRUE` + f.where()

	var total int64
	if err := r.db.QueryRow(ctx, query, f.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $3,
		    cancelled_at = CASE WHEN $4 THEN NOW() ELSE cancelled_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, to == entity.BookingStatusCancelled)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update booking %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Booking status updated",
		zap.String("booking_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

func (r *bookingRepository) FindRoomSchedule(ctx context.Context, roomID uuid.UUID, from time.Time) ([]entity.DateRange, error) {
	query := `
		SELECT check_in, check_out FROM bookings
		WHERE room_id = $1 AND status <> 'cancelled' AND check_out > $2
		ORDER BY check_in
	`

	rows, err := r.db.Query(ctx, query, roomID, from)
	if err != nil {
		r.log.Error("Failed to load room schedule", zap.Error(err), zap.String("room_id", roomID.String()))
		return nil, fmt.Errorf("find schedule for room %s: %w", roomID, err)
	}
	defer rows.Close()

	ranges := []entity.DateRange{}
	for rows.Next() {
		var dr entity.DateRange
		if err := rows.Scan(&dr.CheckIn, &dr.CheckOut); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		ranges = append(ranges, dr)
	}

	return ranges, rows.Err()
}

func (r *bookingRepository) CountUpcomingByRoom(ctx context.Context, roomID uuid.UUID, from time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE room_id = $1 AND status <> 'cancelled' AND check_out > $2`

	var total int64
	if err := r.db.QueryRow(ctx, query, roomID, from).Scan(&total); err != nil {
		r.log.Error("Failed to count upcoming bookings", zap.Error(err), zap.String("room_id", roomID.String()))
		return 0, fmt.Errorf("count upcoming bookings for room %s: %w", roomID, err)
	}
	return total, nil
}
