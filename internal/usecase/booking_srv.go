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
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceAttempts = 3

type BookingService interface {
	// CreateBooking books a room for a user (userID set) or a guest.
	CreateBooking(ctx context.Context, userID *uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetByReference(ctx context.Context, reference, email string) (*response.BookingResponse, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelOwnBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)

	ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo      *repository.Repository
	config    *utils.Config
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewBookingService(repo *repository.Repository, config *utils.Config, publisher events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		config:    config,
		publisher: publisher,
		log:       log.With(zap.String("service", "booking")),
		now:       time.Now,
	}
}

type contact struct {
	name, email, phone string
}

// resolveContact fills contact details from the profile for signed-in
// users. Guests must supply all three fields.
func (s *bookingService) resolveContact(ctx context.Context, userID *uuid.UUID, req *request.CreateBookingRequest) (contact, error) {
	c := contact{
		name:  strings.TrimSpace(req.GuestName),
		email: strings.ToLower(strings.TrimSpace(req.GuestEmail)),
		phone: strings.TrimSpace(req.GuestPhone),
	}

	if userID == nil {
		if c.name == "" || c.email == "" || c.phone == "" {
			return contact{}, newError(ErrInvalidInput, "guest_name, guest_email and guest_phone are required when booking without an account")
		}
		return c, nil
	}

	user, err := s.repo.User.FindByID(ctx, *userID)
	if err != nil {
		return contact{}, err
	}
	if user == nil {
		return contact{}, newError(ErrUnauthorized, "account no longer exists")
	}

	if c.name == "" {
		c.name = user.Name
	}
	if c.email == "" {
		c.email = user.Email
	}
	if c.phone == "" && user.Phone != nil {
		c.phone = *user.Phone
	}
	return c, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID *uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, newError(ErrInvalidInput, "invalid room_id")
	}

	stay, err := ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if stay.CheckIn.Before(entity.StartOfDay(now)) {
		return nil, newError(ErrInvalidInput, "check-in cannot be in the past")
	}
	if req.Guests < 1 {
		return nil, newError(ErrInvalidInput, "at least one guest is required")
	}

	c, err := s.resolveContact(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, newError(ErrNotFound, "room not found")
	}
	if !room.IsAvailable {
		return nil, newError(ErrConflict, "room is not available for booking")
	}
	if req.Guests > room.Capacity {
		return nil, newError(ErrInvalidInput, "room sleeps at most %d guests", room.Capacity)
	}

	quote, err := PriceStay(stay, room.PricePerNight, s.config.Booking.MaxNights)
	if err != nil {
		return nil, err
	}
	if req.TotalPrice != nil && !SameAmount(*req.TotalPrice, quote.Total) {
		s.log.Warn("Client total does not match",
			zap.String("room_id", roomID.String()),
			zap.Float64("client_total", *req.TotalPrice),
			zap.Float64("server_total", quote.Total))
		return nil, newError(ErrPriceMismatch, "price mismatch: expected %.2f", quote.Total)
	}

	booking := &entity.Booking{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		RoomID:          roomID,
		UserID:          userID,
		GuestName:       c.name,
		GuestEmail:      c.email,
		GuestPhone:      c.phone,
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Guests:          req.Guests,
		TotalPrice:      quote.Total,
		Status:          entity.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
		RoomName:        room.Name,
	}

	if err := s.insert(ctx, booking); err != nil {
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("room_id", roomID.String()),
		zap.Int("nights", quote.Nights),
		zap.Float64("total", quote.Total))

	publish(ctx, s.publisher, s.log, bookingEvent(events.BookingCreated, booking))

	resp := response.NewBookingResponse(booking)
	return &resp, nil
}

// insert stores the booking, retrying on a reference collision.
func (s *bookingService) insert(ctx context.Context, booking *entity.Booking) error {
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		reference, err := utils.GenerateBookingReference(booking.CreatedAt)
		if err != nil {
			return err
		}
		booking.Reference = reference

		err = s.repo.Booking.CreateIfAvailable(ctx, booking)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrDuplicate):
			continue
		case errors.Is(err, repository.ErrBookingConflict):
			return newError(ErrConflict, "room is not available for the selected dates")
		case errors.Is(err, repository.ErrRoomUnavailable):
			return newError(ErrConflict, "room is not available for booking")
		case errors.Is(err, repository.ErrNotFound):
			return newError(ErrNotFound, "room not found")
		default:
			return err
		}
	}
	return errors.New("could not allocate a unique booking reference")
}

func (s *bookingService) load(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, newError(ErrNotFound, "booking not found")
	}
	return booking, nil
}

// GetByReference lets a guest look up a booking; the email must match.
func (s *bookingService) GetByReference(ctx context.Context, reference, email string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return nil, err
	}
	if booking == nil || email == "" || !strings.EqualFold(strings.TrimSpace(email), booking.GuestEmail) {
		return nil, newError(ErrNotFound, "booking not found")
	}

	resp := response.NewBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter := entity.BookingFilter{UserID: &userID}
	return s.list(ctx, filter, *req)
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	var filter entity.BookingFilter
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}
	if req.RoomID != "" {
		roomID, err := uuid.Parse(req.RoomID)
		if err != nil {
			return nil, newError(ErrInvalidInput, "invalid room_id")
		}
		filter.RoomID = &roomID
	}
	return s.list(ctx, filter, req.PaginatedRequest)
}

func (s *bookingService) list(ctx context.Context, filter entity.BookingFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.NewBookingResponses(bookings), page.Page, page.Limit(), total), nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.NewBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelOwnBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID == nil || *booking.UserID != userID {
		return nil, newError(ErrForbidden, "you can only cancel your own bookings")
	}

	return s.transition(ctx, booking, entity.BookingStatusCancelled)
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, entity.BookingStatus(req.Status))
}

// transition applies one step of the status machine. Only the target
// booking changes.
func (s *bookingService) transition(ctx context.Context, booking *entity.Booking, to entity.BookingStatus) (*response.BookingResponse, error) {
	from := booking.Status
	if !from.CanTransitionTo(to) {
		return nil, newError(ErrInvalidTransition, "cannot change booking from %s to %s", from, to)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, from, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrConflict, "booking was changed by another request, reload and retry")
		}
		return nil, err
	}

	now := s.now()
	booking.Status = to
	booking.UpdatedAt = now
	if to == entity.BookingStatusCancelled {
		booking.CancelledAt = &now
	}

	eventType := events.BookingConfirmed
	if to == entity.BookingStatusCancelled {
		eventType = events.BookingCancelled
	}
	publish(ctx, s.publisher, s.log, bookingEvent(eventType, booking))

	resp := response.NewBookingResponse(booking)
	return &resp, nil
}

func bookingEvent(t events.Type, b *entity.Booking) events.Event {
	return events.New(t, b.ID, b.RoomID, b.Reference, string(b.Status), b.TotalPrice)
}
