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

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindAll(ctx context.Context, filter entity.RoomFilter, limit, offset int) ([]*entity.Room, error)
	Count(ctx context.Context, filter entity.RoomFilter) (int64, error)
	Update(ctx context.Context, room *entity.Room) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAvailable returns bookable rooms with no active booking overlapping stay.
	FindAvailable(ctx context.Context, stay entity.DateRange, guests int) ([]*entity.Room, error)
}

type roomRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRoomRepository(db database.PgxIface, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `id, name, description, price_per_night, capacity, amenities, images,
	is_available, created_at, updated_at, deleted_at`

func scanRoom(row rowScanner) (*entity.Room, error) {
	var room entity.Room
	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.PricePerNight,
		&room.Capacity,
		&room.Amenities,
		&room.Images,
		&room.IsAvailable,
		&room.CreatedAt,
		&room.UpdatedAt,
		&room.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func roomFilter(filter entity.RoomFilter) *filterBuilder {
	f := &filterBuilder{}
	if filter.Available != nil {
		f.add("is_available = ?", *filter.Available)
	}
	if filter.MinPrice != nil {
		f.add("price_per_night >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		f.add("price_per_night <= ?", *filter.MaxPrice)
	}
	if filter.MinCapacity > 0 {
		f.add("capacity >= ?", filter.MinCapacity)
	}
	return f
}

func (r *roomRepository) collect(rows pgx.Rows) ([]*entity.Room, error) {
	defer rows.Close()

	var rooms []*entity.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			r.log.Error("Failed to scan room row", zap.Error(err))
			return nil, fmt.Errorf("scan room row: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate room rows: %w", err)
	}

	return rooms, nil
}

func (r *roomRepository) Create(ctx context.Context, room *entity.Room) error {
	query := `
		INSERT INTO rooms (id, name, description, price_per_night, capacity, amenities, images,
		                   is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Description,
		room.PricePerNight,
		room.Capacity,
		nonNil(room.Amenities),
		nonNil(room.Images),
		room.IsAvailable,
		room.CreatedAt,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create room", zap.Error(err), zap.String("name", room.Name))
		return fmt.Errorf("create room %s: %w", room.Name, err)
	}

	return nil
}

func (r *roomRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 AND deleted_at IS NULL`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find room by ID", zap.Error(err), zap.String("room_id", id.String()))
		return nil, fmt.Errorf("find room by ID %s: %w", id.String(), err)
	}

	return room, nil
}

func (r *roomRepository) FindAll(ctx context.Context, filter entity.RoomFilter, limit, offset int) ([]*entity.Room, error) {
	f := roomFilter(filter)

	query := fmt.Sprintf(`
		SELECT %s FROM rooms
		WHERE deleted_at IS NULL%s
		ORDER BY price_per_night ASC, name ASC
		LIMIT $%d OFFSET $%d
	`, roomColumns, f.where(), f.next(), f.next()+1)

	rows, err := r.db.Query(ctx, query, append(f.args, limit, offset)...)
	if err != nil {
		r.log.Error("Failed to list rooms", zap.Error(err))
		return nil, fmt.Errorf("find all rooms: %w", err)
	}

	return r.collect(rows)
}

func (r *roomRepository) Count(ctx context.Context, filter entity.RoomFilter) (int64, error) {
	f := roomFilter(filter)
	query := `SELECT COUNT(*) FROM rooms WHERE deleted_at IS NULL` + f.where()

	var total int64
	if err := r.db.QueryRow(ctx, query, f.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count rooms", zap.Error(err))
		return 0, fmt.Errorf("count rooms: %w", err)
	}

	return total, nil
}

func (r *roomRepository) FindAvailable(ctx context.Context, stay entity.DateRange, guests int) ([]*entity.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms r
		WHERE r.deleted_at IS NULL
		  AND r.is_available = TRUE
		  AND r.capacity >= $1
		  AND NOT EXISTS (
		      SELECT 1 FROM bookings b
		      WHERE b.room_id = r.id
		        AND b.status <> 'cancelled'
		        AND b.check_in < $3
		        AND b.check_out > $2
		  )
		ORDER BY r.price_per_night ASC, r.name ASC
	`

	rows, err := r.db.Query(ctx, query, guests, stay.CheckIn, stay.CheckOut)
	if err != nil {
		r.log.Error("Failed to search available rooms",
			zap.Error(err),
			zap.Time("check_in", stay.CheckIn),
			zap.Time("check_out", stay.CheckOut),
		)
		return nil, fmt.Errorf("find available rooms: %w", err)
	}

	return r.collect(rows)
}

func (r *roomRepository) Update(ctx context.Context, room *entity.Room) error {
	query := `
		UPDATE rooms
		SET name = $2, description = $3, price_per_night = $4, capacity = $5,
		    amenities = $6, images = $7, is_available = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		room.ID,
		room.Name,
		room.Description,
		room.PricePerNight,
		room.Capacity,
		nonNil(room.Amenities),
		nonNil(room.Images),
		room.IsAvailable,
		room.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update room", zap.Error(err), zap.String("room_id", room.ID.String()))
		return fmt.Errorf("update room %s: %w", room.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *roomRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE rooms SET is_available = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, available)
	if err != nil {
		r.log.Error("Failed to set room availability", zap.Error(err), zap.String("room_id", id.String()))
		return fmt.Errorf("set room %s availability: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rooms SET deleted_at = NOW(), is_available = FALSE WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete room", zap.Error(err), zap.String("room_id", id.String()))
		return fmt.Errorf("delete room %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Room deleted", zap.String("room_id", id.String()))
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
