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
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo is recorded on the session at login.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	SeedSuperAdmin(ctx context.Context) error
	SessionTTL() time.Duration
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SessionTTL() time.Duration {
	hours := s.config.Session.ExpiryHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}
	if existing != nil {
		return nil, newError(ErrConflict, "email already registered")
	}

	hash, err := utils.HashPassword(req.Password, s.config.Security.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Base:         entity.NewBase(now),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "email already registered")
		}
		return nil, err
	}

	// auto login
	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return authResponse(user, session), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn("Login failed", zap.String("email", req.Email))
		return nil, newError(ErrUnauthorized, "invalid email or password")
	}
	if !user.IsActive {
		return nil, newError(ErrForbidden, "account is deactivated")
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return authResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrUnauthorized, "session already ended")
		}
		return err
	}
	return nil
}

// SeedSuperAdmin creates the configured super admin once.
func (s *authService) SeedSuperAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(s.config.Security.AdminEmail))
	password := s.config.Security.AdminPassword
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(password, s.config.Security.BcryptCost)
	if err != nil {
		return err
	}

	user := &entity.User{
		Base:         entity.NewBase(time.Now()),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info("Super admin seeded", zap.String("email", email))
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	session := entity.NewSession(userID, s.SessionTTL(), client.UserAgent, client.IPAddress, time.Now())
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func authResponse(user *entity.User, session *entity.Session) *response.AuthResponse {
	resp := &response.AuthResponse{User: response.NewUserResponse(user)}
	if session != nil {
		resp.Token = session.Token.String()
		expires := session.ExpiresAt
		resp.ExpiresAt = &expires
	}
	return resp
}
