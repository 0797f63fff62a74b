package repository

import (
	"context"
	"fmt"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/database"

	"go.uber.org/zap"
)

type DashboardRepository interface {
	Stats(ctx context.Context, today time.Time) (*entity.DashboardStats, error)
}

type dashboardRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDashboardRepository(db database.PgxIface, log *zap.Logger) DashboardRepository {
	return &dashboardRepository{
		db:  db,
		log: log.With(zap.String("repository", "dashboard")),
	}
}

// Stats aggregates back office counters. today must be UTC midnight.
func (r *dashboardRepository) Stats(ctx context.Context, today time.Time) (*entity.DashboardStats, error) {
	tomorrow := today.Add(24 * time.Hour)
	stats := &entity.DashboardStats{BookingsByStatus: map[entity.BookingStatus]int64{}}

	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL),
			(SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL AND is_available),
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL),
			(SELECT COALESCE(SUM(amount), 0)::float8 FROM payments WHERE status = 'completed'),
			(SELECT COUNT(*) FROM bookings WHERE status <> 'cancelled' AND check_in >= $1 AND check_in < $2),
			(SELECT COUNT(*) FROM bookings WHERE status <> 'cancelled' AND check_out >= $1 AND check_out < $2),
			(SELECT COUNT(DISTINCT room_id) FROM bookings WHERE status <> 'cancelled' AND check_in <= $1 AND check_out > $1)
	`, today, tomorrow).Scan(
		&stats.TotalRooms,
		&stats.AvailableRooms,
		&stats.TotalUsers,
		&stats.TotalRevenue,
		&stats.CheckInsToday,
		&stats.CheckOutsToday,
		&stats.OccupiedToday,
	)
	if err != nil {
		r.log.Error("Failed to load dashboard counters", zap.Error(err))
		return nil, fmt.Errorf("dashboard counters: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count bookings by status", zap.Error(err))
		return nil, fmt.Errorf("bookings by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status entity.BookingStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.BookingsByStatus[status] = count
	}

	return stats, rows.Err()
}
