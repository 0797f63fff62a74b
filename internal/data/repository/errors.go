package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("record already exists")
	ErrBookingConflict = errors.New("room is already booked for the selected dates")
	ErrRoomUnavailable = errors.New("room is not available")
	ErrNotPending      = errors.New("booking is not pending")
	ErrAlreadyPaid     = errors.New("booking already has a completed payment")
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
