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
	"hotel-reservation/pkg/currency"
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	ListRooms(ctx context.Context, req *request.RoomListRequest) (*response.PaginatedResponse[response.RoomResponse], error)
	GetRoom(ctx context.Context, id uuid.UUID, currencyCode, lang string) (*response.RoomResponse, error)
	SearchAvailable(ctx context.Context, req *request.StayRequest) ([]response.RoomResponse, error)
	Quote(ctx context.Context, roomID uuid.UUID, req *request.StayRequest) (*response.QuoteResponse, error)
	Schedule(ctx context.Context, roomID uuid.UUID) (*response.RoomScheduleResponse, error)

	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, req *request.UpdateRoomRequest) (*response.RoomResponse, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*response.RoomResponse, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error
}

type roomService struct {
	repo   *repository.Repository
	config *utils.Config
	rates  *currency.Cache
	log    *zap.Logger
	now    func() time.Time
}

func NewRoomService(repo *repository.Repository, config *utils.Config, rates *currency.Cache, log *zap.Logger) RoomService {
	return &roomService{
		repo:   repo,
		config: config,
		rates:  rates,
		log:    log.With(zap.String("service", "room")),
		now:    time.Now,
	}
}

// ParseStay validates check-in/check-out strings into a UTC date range.
func ParseStay(checkIn, checkOut string) (entity.DateRange, error) {
	in, err := utils.ParseDate(checkIn)
	if err != nil {
		return entity.DateRange{}, newError(ErrInvalidInput, "check_in must be a date (YYYY-MM-DD)")
	}
	out, err := utils.ParseDate(checkOut)
	if err != nil {
		return entity.DateRange{}, newError(ErrInvalidInput, "check_out must be a date (YYYY-MM-DD)")
	}

	stay := entity.NewDateRange(in, out)
	if !stay.CheckOut.After(stay.CheckIn) {
		return entity.DateRange{}, newError(ErrInvalidInput, "check-out must be after check-in")
	}
	return stay, nil
}

func (s *roomService) load(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	room, err := s.repo.Room.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, newError(ErrNotFound, "room not found")
	}
	return room, nil
}

// present converts the nightly rate into the requested currency.
func (s *roomService) present(room *entity.Room, code, lang string) (response.RoomResponse, error) {
	base := s.rates.Base()
	if code == "" {
		code = base
	}
	code = strings.ToUpper(code)

	price, err := s.rates.Convert(room.PricePerNight, base, code)
	if err != nil {
		return response.RoomResponse{}, newError(ErrInvalidInput, "unsupported currency %s", code)
	}

	resp := response.NewRoomResponse(room, code)
	resp.PricePerNight = price
	if display, err := currency.Format(price, code, lang); err == nil {
		resp.DisplayPrice = display
	}
	return resp, nil
}

func (s *roomService) presentAll(rooms []*entity.Room, code, lang string) ([]response.RoomResponse, error) {
	out := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		resp, err := s.present(room, code, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *roomService) ListRooms(ctx context.Context, req *request.RoomListRequest) (*response.PaginatedResponse[response.RoomResponse], error) {
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, newError(ErrInvalidInput, "min_price cannot exceed max_price")
	}

	filter := entity.RoomFilter{
		Available:   req.Available,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		MinCapacity: req.Capacity,
	}

	rooms, err := s.repo.Room.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Room.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := s.presentAll(rooms, req.Currency, req.Lang)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *roomService) GetRoom(ctx context.Context, id uuid.UUID, currencyCode, lang string) (*response.RoomResponse, error) {
	room, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := s.present(room, currencyCode, lang)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *roomService) SearchAvailable(ctx context.Context, req *request.StayRequest) ([]response.RoomResponse, error) {
	stay, err := ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	guests := req.Guests
	if guests < 1 {
		guests = 1
	}

	rooms, err := s.repo.Room.FindAvailable(ctx, stay, guests)
	if err != nil {
		return nil, err
	}

	return s.presentAll(rooms, req.Currency, req.Lang)
}

func (s *roomService) Quote(ctx context.Context, roomID uuid.UUID, req *request.StayRequest) (*response.QuoteResponse, error) {
	stay, err := ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	room, err := s.load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	quote, err := PriceStay(stay, room.PricePerNight, s.config.Booking.MaxNights)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(req.Currency)
	if code == "" {
		code = s.rates.Base()
	}
	rate, err := s.rates.Convert(quote.Rate, s.rates.Base(), code)
	if err != nil {
		return nil, newError(ErrInvalidInput, "unsupported currency %s", code)
	}
	total, _ := s.rates.Convert(quote.Total, s.rates.Base(), code)

	resp := &response.QuoteResponse{
		RoomID:        room.ID.String(),
		CheckIn:       stay.CheckIn.Format(utils.DateLayout),
		CheckOut:      stay.CheckOut.Format(utils.DateLayout),
		Nights:        quote.Nights,
		PricePerNight: rate,
		Total:         total,
		Currency:      code,
	}
	if display, err := currency.Format(total, code, req.Lang); err == nil {
		resp.DisplayTotal = display
	}
	return resp, nil
}

// Schedule lists booked ranges from today on, without guest details.
func (s *roomService) Schedule(ctx context.Context, roomID uuid.UUID) (*response.RoomScheduleResponse, error) {
	if _, err := s.load(ctx, roomID); err != nil {
		return nil, err
	}

	ranges, err := s.repo.Booking.FindRoomSchedule(ctx, roomID, entity.StartOfDay(s.now()))
	if err != nil {
		return nil, err
	}

	booked := make([]response.DateRangeResponse, 0, len(ranges))
	for _, r := range ranges {
		booked = append(booked, response.NewDateRangeResponse(r))
	}

	return &response.RoomScheduleResponse{RoomID: roomID.String(), Booked: booked}, nil
}

func (s *roomService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	room := &entity.Room{
		Base:          entity.NewBase(s.now()),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		PricePerNight: RoundCents(req.PricePerNight),
		Capacity:      req.Capacity,
		Amenities:     req.Amenities,
		Images:        req.Images,
		IsAvailable:   available,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("Room created", zap.String("room_id", room.ID.String()), zap.String("name", room.Name))

	resp := response.NewRoomResponse(room, s.rates.Base())
	return &resp, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, id uuid.UUID, req *request.UpdateRoomRequest) (*response.RoomResponse, error) {
	room, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		room.Description = req.Description
	}
	if req.PricePerNight != nil {
		room.PricePerNight = RoundCents(*req.PricePerNight)
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		room.Amenities = *req.Amenities
	}
	if req.Images != nil {
		room.Images = *req.Images
	}
	if req.IsAvailable != nil {
		room.IsAvailable = *req.IsAvailable
	}
	room.UpdatedAt = s.now()

	if err := s.repo.Room.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "room not found")
		}
		return nil, err
	}

	resp := response.NewRoomResponse(room, s.rates.Base())
	return &resp, nil
}

func (s *roomService) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (*response.RoomResponse, error) {
	if err := s.repo.Room.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "room not found")
		}
		return nil, err
	}

	room, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Room availability changed", zap.String("room_id", id.String()), zap.Bool("available", available))

	resp := response.NewRoomResponse(room, s.rates.Base())
	return &resp, nil
}

// DeleteRoom soft deletes a room with no upcoming active bookings.
func (s *roomService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	upcoming, err := s.repo.Booking.CountUpcomingByRoom(ctx, id, entity.StartOfDay(s.now()))
	if err != nil {
		return err
	}
	if upcoming > 0 {
		return newError(ErrConflict, "room has %d upcoming bookings", upcoming)
	}

	if err := s.repo.Room.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "room not found")
		}
		return err
	}
	return nil
}
