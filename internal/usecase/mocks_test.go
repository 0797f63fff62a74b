package usecase

import (
	"context"
	"sync"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/pkg/events"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	CreateFunc      func(ctx context.Context, user *entity.User) error
	FindByIDFunc    func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	FindAllFunc     func(ctx context.Context, role *entity.UserRole, limit, offset int) ([]*entity.User, error)
	CountAllFunc    func(ctx context.Context, role *entity.UserRole) (int64, error)
	UpdateFunc      func(ctx context.Context, user *entity.User) error
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.CreateFunc(ctx, user)
}
func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.FindByEmailFunc(ctx, email)
}
func (m *mockUserRepo) FindAll(ctx context.Context, role *entity.UserRole, limit, offset int) ([]*entity.User, error) {
	return m.FindAllFunc(ctx, role, limit, offset)
}
func (m *mockUserRepo) CountAll(ctx context.Context, role *entity.UserRole) (int64, error) {
	return m.CountAllFunc(ctx, role)
}
func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	return m.UpdateFunc(ctx, user)
}
func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

type mockSessionRepo struct {
	CreateFunc                func(ctx context.Context, session *entity.Session) error
	FindValidSessionFunc      func(ctx context.Context, token string) (*entity.Session, error)
	RevokeFunc                func(ctx context.Context, token string) error
	RevokeAllUserSessionsFunc func(ctx context.Context, userID uuid.UUID) error
	RevokeOtherSessionsFunc   func(ctx context.Context, userID uuid.UUID, keepToken string) error
	CleanExpiredSessionsFunc  func(ctx context.Context) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.CreateFunc(ctx, session)
}
func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return m.FindValidSessionFunc(ctx, token)
}
func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	return m.RevokeFunc(ctx, token)
}
func (m *mockSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return m.RevokeAllUserSessionsFunc(ctx, userID)
}
func (m *mockSessionRepo) RevokeOtherSessions(ctx context.Context, userID uuid.UUID, keepToken string) error {
	return m.RevokeOtherSessionsFunc(ctx, userID, keepToken)
}
func (m *mockSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	return m.CleanExpiredSessionsFunc(ctx)
}

type mockRoomRepo struct {
	CreateFunc          func(ctx context.Context, room *entity.Room) error
	FindByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	FindAllFunc         func(ctx context.Context, filter entity.RoomFilter, limit, offset int) ([]*entity.Room, error)
	CountFunc           func(ctx context.Context, filter entity.RoomFilter) (int64, error)
	UpdateFunc          func(ctx context.Context, room *entity.Room) error
	SetAvailabilityFunc func(ctx context.Context, id uuid.UUID, available bool) error
	DeleteFunc          func(ctx context.Context, id uuid.UUID) error
	FindAvailableFunc   func(ctx context.Context, stay entity.DateRange, guests int) ([]*entity.Room, error)
}

func (m *mockRoomRepo) Create(ctx context.Context, room *entity.Room) error {
	return m.CreateFunc(ctx, room)
}
func (m *mockRoomRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockRoomRepo) FindAll(ctx context.Context, filter entity.RoomFilter, limit, offset int) ([]*entity.Room, error) {
	return m.FindAllFunc(ctx, filter, limit, offset)
}
func (m *mockRoomRepo) Count(ctx context.Context, filter entity.RoomFilter) (int64, error) {
	return m.CountFunc(ctx, filter)
}
func (m *mockRoomRepo) Update(ctx context.Context, room *entity.Room) error {
	return m.UpdateFunc(ctx, room)
}
func (m *mockRoomRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return m.SetAvailabilityFunc(ctx, id, available)
}
func (m *mockRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}
func (m *mockRoomRepo) FindAvailable(ctx context.Context, stay entity.DateRange, guests int) ([]*entity.Room, error) {
	return m.FindAvailableFunc(ctx, stay, guests)
}

type mockBookingRepo struct {
	CreateIfAvailableFunc   func(ctx context.Context, booking *entity.Booking) error
	FindByIDFunc            func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByReferenceFunc     func(ctx context.Context, reference string) (*entity.Booking, error)
	FindAllFunc             func(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error)
	CountFunc               func(ctx context.Context, filter entity.BookingFilter) (int64, error)
	UpdateStatusFunc        func(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error
	FindRoomScheduleFunc    func(ctx context.Context, roomID uuid.UUID, from time.Time) ([]entity.DateRange, error)
	CountUpcomingByRoomFunc func(ctx context.Context, roomID uuid.UUID, from time.Time) (int64, error)
}

func (m *mockBookingRepo) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	return m.CreateIfAvailableFunc(ctx, booking)
}
func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return m.FindByIDFunc(ctx, id)
}
func (m *mockBookingRepo) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	return m.FindByReferenceFunc(ctx, reference)
}
func (m *mockBookingRepo) FindAll(ctx context.Context, filter entity.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	return m.FindAllFunc(ctx, filter, limit, offset)
}
func (m *mockBookingRepo) Count(ctx context.Context, filter entity.BookingFilter) (int64, error) {
	return m.CountFunc(ctx, filter)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) error {
	return m.UpdateStatusFunc(ctx, id, from, to)
}
func (m *mockBookingRepo) FindRoomSchedule(ctx context.Context, roomID uuid.UUID, from time.Time) ([]entity.DateRange, error) {
	return m.FindRoomScheduleFunc(ctx, roomID, from)
}
func (m *mockBookingRepo) CountUpcomingByRoom(ctx context.Context, roomID uuid.UUID, from time.Time) (int64, error) {
	return m.CountUpcomingByRoomFunc(ctx, roomID, from)
}

type mockPaymentRepo struct {
	CreateAndConfirmFunc func(ctx context.Context, payment *entity.Payment) error
	FindByBookingIDFunc  func(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	FindAllFunc          func(ctx context.Context, limit, offset int) ([]*entity.Payment, error)
	CountAllFunc         func(ctx context.Context) (int64, error)
}

func (m *mockPaymentRepo) CreateAndConfirm(ctx context.Context, payment *entity.Payment) error {
	return m.CreateAndConfirmFunc(ctx, payment)
}
func (m *mockPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	return m.FindByBookingIDFunc(ctx, bookingID)
}
func (m *mockPaymentRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Payment, error) {
	return m.FindAllFunc(ctx, limit, offset)
}
func (m *mockPaymentRepo) CountAll(ctx context.Context) (int64, error) {
	return m.CountAllFunc(ctx)
}

type mockDashboardRepo struct {
	StatsFunc func(ctx context.Context, today time.Time) (*entity.DashboardStats, error)
}

func (m *mockDashboardRepo) Stats(ctx context.Context, today time.Time) (*entity.DashboardStats, error) {
	return m.StatsFunc(ctx, today)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var _ repository.BookingRepository = (*mockBookingRepo)(nil)
