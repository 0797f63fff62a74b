package usecase

import (
	"context"
	"time"

	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/currency"
	"hotel-reservation/pkg/events"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Room      RoomService
	Booking   BookingService
	Payment   PaymentService
	Dashboard DashboardService
	Currency  CurrencyService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	rates *currency.Cache,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, config, log),
		User:      NewUserService(repo, config, log),
		Room:      NewRoomService(repo, config, rates, log),
		Booking:   NewBookingService(repo, config, publisher, log),
		Payment:   NewPaymentService(repo, publisher, log),
		Dashboard: NewDashboardService(repo, config, log),
		Currency:  NewCurrencyService(rates, log),
	}
}

// publish sends an event without failing the caller.
func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, event events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", string(event.Type)),
			zap.String("booking_id", event.BookingID.String()),
		)
	}
}
