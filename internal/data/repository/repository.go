package repository

import (
	"hotel-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	Room      RoomRepository
	Booking   BookingRepository
	Payment   PaymentRepository
	Dashboard DashboardRepository
}

func NewRepository(db database.PgxIface, sealer FieldSealer, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		Room:      NewRoomRepository(db, log),
		Booking:   NewBookingRepository(db, sealer, log),
		Payment:   NewPaymentRepository(db, log),
		Dashboard: NewDashboardRepository(db, log),
	}
}
