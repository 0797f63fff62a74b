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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentToken string, req *request.ChangePasswordRequest) error

	ListUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error)
	UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, req *request.UpdateUserRoleRequest) (*response.UserResponse, error)
	SetUserActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

type userService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewUserService(repo *repository.Repository, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "user")),
	}
}

func (us *userService) load(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, err
	}
	if user == nil {
		return nil, newError(ErrNotFound, "user not found")
	}
	return user, nil
}

func (us *userService) save(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	if err := us.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "user not found")
		}
		return err
	}
	return nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.NewUserResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}

	if err := us.save(ctx, user); err != nil {
		return nil, err
	}

	resp := response.NewUserResponse(user)
	return &resp, nil
}

// ChangePassword updates the hash and signs out every other session.
func (us *userService) ChangePassword(ctx context.Context, userID uuid.UUID, currentToken string, req *request.ChangePasswordRequest) error {
	user, err := us.load(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return newError(ErrInvalidInput, "current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword, us.config.Security.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := us.save(ctx, user); err != nil {
		return err
	}

	if err := us.repo.Session.RevokeOtherSessions(ctx, userID, currentToken); err != nil {
		us.log.Warn("Failed to revoke other sessions", zap.Error(err), zap.String("user_id", userID.String()))
	}

	us.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (us *userService) ListUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	var role *entity.UserRole
	if req.Role != "" {
		r := entity.UserRole(req.Role)
		role = &r
	}

	users, err := us.repo.User.FindAll(ctx, role, req.Limit(), req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := us.repo.User.CountAll(ctx, role)
	if err != nil {
		return nil, err
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.NewUserResponse(u))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (us *userService) UpdateUserRole(ctx context.Context, actorID, userID uuid.UUID, req *request.UpdateUserRoleRequest) (*response.UserResponse, error) {
	role := entity.UserRole(req.Role)
	if !role.Valid() {
		return nil, newError(ErrInvalidInput, "unknown role %q", req.Role)
	}
	if actorID == userID && role != entity.RoleSuperAdmin {
		return nil, newError(ErrForbidden, "you cannot demote yourself")
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := us.save(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("User role updated",
		zap.String("actor_id", actorID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", req.Role))

	resp := response.NewUserResponse(user)
	return &resp, nil
}

func (us *userService) SetUserActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*response.UserResponse, error) {
	if actorID == userID && !active {
		return nil, newError(ErrForbidden, "you cannot deactivate yourself")
	}

	user, err := us.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := us.save(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
			us.log.Warn("Failed to revoke sessions", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}

	resp := response.NewUserResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return newError(ErrForbidden, "you cannot delete your own account")
	}

	if err := us.repo.User.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "user not found")
		}
		return err
	}

	if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		us.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.String("user_id", userID.String()))
	}

	us.log.Info("User deleted", zap.String("actor_id", actorID.String()), zap.String("user_id", userID.String()))
	return nil
}
