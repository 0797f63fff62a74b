package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hotel-reservation/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func scanBool(v bool) fakeRow {
	return fakeRow{scan: func(dest ...any) error {
		*dest[0].(*bool) = v
		return nil
	}}
}

// fakeDB answers the statements CreateIfAvailable issues for one room.
type fakeDB struct {
	roomMissing   bool
	roomAvailable bool
	booked        []entity.DateRange
	insertErr     error

	overlapArgs []any
	insertArgs  []any
	committed   bool
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "FOR UPDATE"):
		if db.roomMissing {
			return fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}
		}
		return scanBool(db.roomAvailable)
	case strings.Contains(sql, "SELECT EXISTS"):
		db.overlapArgs = args
		// check_in < $3 AND check_out > $2
		requested := entity.DateRange{CheckIn: args[1].(time.Time), CheckOut: args[2].(time.Time)}
		for _, existing := range db.booked {
			if existing.Overlaps(requested) {
				return scanBool(true)
			}
		}
		return scanBool(false)
	}
	return fakeRow{scan: func(...any) error { return errors.New("unexpected QueryRow: " + sql) }}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if !strings.Contains(sql, "INSERT INTO bookings") {
		return pgconn.CommandTag{}, errors.New("unexpected Exec: " + sql)
	}
	if db.insertErr != nil {
		return pgconn.CommandTag{}, db.insertErr
	}
	db.insertArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return &fakeTx{db: db}, nil }
func (db *fakeDB) Ping(ctx context.Context) error             { return nil }
func (db *fakeDB) Close()                                     {}

type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return tx.db.QueryRow(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.db.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error { return nil }

type prefixSealer struct{}

func (prefixSealer) Seal(plaintext string) (string, error) { return "sealed:" + plaintext, nil }
func (prefixSealer) Open(token string) (string, error) {
	return strings.TrimPrefix(token, "sealed:"), nil
}

func june(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestBookingRepository_CreateIfAvailable(t *testing.T) {
	existing := []entity.DateRange{{CheckIn: june(1), CheckOut: june(3)}}

	tests := []struct {
		name       string
		db         *fakeDB
		checkIn    time.Time
		checkOut   time.Time
		wantErr    error
		wantInsert bool
	}{
		{
			name:       "free room",
			db:         &fakeDB{roomAvailable: true},
			checkIn:    june(1),
			checkOut:   june(3),
			wantInsert: true,
		},
		{
			name:     "overlapping stay",
			db:       &fakeDB{roomAvailable: true, booked: existing},
			checkIn:  june(2),
			checkOut: june(4),
			wantErr:  ErrBookingConflict,
		},
		{
			name:     "stay inside existing booking",
			db:       &fakeDB{roomAvailable: true, booked: []entity.DateRange{{CheckIn: june(1), CheckOut: june(5)}}},
			checkIn:  june(2),
			checkOut: june(3),
			wantErr:  ErrBookingConflict,
		},
		{
			name:       "check-in on previous check-out",
			db:         &fakeDB{roomAvailable: true, booked: existing},
			checkIn:    june(3),
			checkOut:   june(5),
			wantInsert: true,
		},
		{
			name:     "room closed",
			db:       &fakeDB{roomAvailable: false},
			checkIn:  june(1),
			checkOut: june(3),
			wantErr:  ErrRoomUnavailable,
		},
		{
			name:     "room missing",
			db:       &fakeDB{roomMissing: true},
			checkIn:  june(1),
			checkOut: june(3),
			wantErr:  ErrNotFound,
		},
		{
			name:     "exclusion constraint",
			db:       &fakeDB{roomAvailable: true, insertErr: &pgconn.PgError{Code: pgExclusionViolation}},
			checkIn:  june(1),
			checkOut: june(3),
			wantErr:  ErrBookingConflict,
		},
		{
			name:     "duplicate reference",
			db:       &fakeDB{roomAvailable: true, insertErr: &pgconn.PgError{Code: pgUniqueViolation}},
			checkIn:  june(1),
			checkOut: june(3),
			wantErr:  ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewBookingRepository(tt.db, prefixSealer{}, zap.NewNop())
			booking := &entity.Booking{
				Reference:  "BK-TEST01",
				RoomID:     uuid.New(),
				GuestName:  "Alice",
				GuestEmail: "alice@example.com",
				GuestPhone: "555-0100",
				CheckIn:    tt.checkIn,
				CheckOut:   tt.checkOut,
				Guests:     2,
				Status:     entity.BookingStatusPending,
			}
			booking.ID = uuid.New()

			err := repo.CreateIfAvailable(context.Background(), booking)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			if tt.db.overlapArgs != nil {
				if tt.db.overlapArgs[0] != booking.RoomID {
					t.Errorf("$1 = %v, want room id", tt.db.overlapArgs[0])
				}
				if got := tt.db.overlapArgs[1].(time.Time); !got.Equal(tt.checkIn) {
					t.Errorf("$2 = %v, want check-in %v", got, tt.checkIn)
				}
				if got := tt.db.overlapArgs[2].(time.Time); !got.Equal(tt.checkOut) {
					t.Errorf("$3 = %v, want check-out %v", got, tt.checkOut)
				}
			}

			if got := tt.db.insertArgs != nil; got != tt.wantInsert {
				t.Fatalf("inserted = %v, want %v", got, tt.wantInsert)
			}
			if tt.wantInsert {
				if !tt.db.committed {
					t.Error("transaction not committed")
				}
				if tt.db.insertArgs[6] != "sealed:555-0100" {
					t.Errorf("guest phone stored as %v", tt.db.insertArgs[6])
				}
			}
		})
	}
}
