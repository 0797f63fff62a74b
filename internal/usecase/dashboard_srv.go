package usecase

import (
	"context"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

const recentBookingsLimit = 5

type DashboardService interface {
	GetDashboard(ctx context.Context) (*response.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewDashboardService(repo *repository.Repository, config *utils.Config, log *zap.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "dashboard")),
		now:    time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context) (*response.DashboardResponse, error) {
	stats, err := s.repo.Dashboard.Stats(ctx, entity.StartOfDay(s.now()))
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.Booking.FindAll(ctx, entity.BookingFilter{}, recentBookingsLimit, 0)
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int64{
		string(entity.BookingStatusPending):   0,
		string(entity.BookingStatusConfirmed): 0,
		string(entity.BookingStatusCancelled): 0,
	}
	for status, count := range stats.BookingsByStatus {
		byStatus[string(status)] = count
	}

	return &response.DashboardResponse{
		TotalRooms:       stats.TotalRooms,
		AvailableRooms:   stats.AvailableRooms,
		TotalUsers:       stats.TotalUsers,
		BookingsByStatus: byStatus,
		TotalRevenue:     RoundCents(stats.TotalRevenue),
		Currency:         s.config.Currency.Base,
		CheckInsToday:    stats.CheckInsToday,
		CheckOutsToday:   stats.CheckOutsToday,
		OccupancyRate:    RoundCents(stats.OccupancyRate()),
		RecentBookings:   response.NewBookingResponses(recent),
	}, nil
}
