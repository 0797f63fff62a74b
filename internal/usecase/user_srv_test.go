package usecase

import (
	"context"
	"errors"
	"testing"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestUserService_SelfProtection(t *testing.T) {
	repo := &repository.Repository{
		User: &mockUserRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				t.Fatal("repository must not be reached")
				return nil, nil
			},
			DeleteFunc: func(ctx context.Context, id uuid.UUID) error {
				t.Fatal("repository must not be reached")
				return nil
			},
		},
	}
	s := NewUserService(repo, testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := s.UpdateUserRole(ctx, testUserID, testUserID, &request.UpdateUserRoleRequest{Role: "admin"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("self demote error = %v, want forbidden", err)
	}
	if _, err := s.SetUserActive(ctx, testUserID, testUserID, false); !errors.Is(err, ErrForbidden) {
		t.Errorf("self deactivate error = %v, want forbidden", err)
	}
	if err := s.DeleteUser(ctx, testUserID, testUserID); !errors.Is(err, ErrForbidden) {
		t.Errorf("self delete error = %v, want forbidden", err)
	}
}

func TestUserService_DeactivateRevokesSessions(t *testing.T) {
	target := uuid.New()
	var saved *entity.User
	revoked := false
	repo := &repository.Repository{
		User: &mockUserRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return &entity.User{Base: entity.Base{ID: id}, Role: entity.RoleUser, IsActive: true}, nil
			},
			UpdateFunc: func(ctx context.Context, u *entity.User) error {
				saved = u
				return nil
			},
		},
		Session: &mockSessionRepo{RevokeAllUserSessionsFunc: func(ctx context.Context, id uuid.UUID) error {
			revoked = id == target
			return nil
		}},
	}
	s := NewUserService(repo, testConfig(), zap.NewNop())

	got, err := s.SetUserActive(context.Background(), testUserID, target, false)
	if err != nil {
		t.Fatalf("SetUserActive() error = %v", err)
	}
	if got.IsActive || saved == nil || saved.IsActive {
		t.Error("user still active")
	}
	if !revoked {
		t.Error("sessions of the deactivated user were not revoked")
	}
}

func TestUserService_UpdateUserRole(t *testing.T) {
	target := uuid.New()
	repo := &repository.Repository{
		User: &mockUserRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
				return &entity.User{Base: entity.Base{ID: id}, Role: entity.RoleUser, IsActive: true}, nil
			},
			UpdateFunc: func(ctx context.Context, u *entity.User) error { return nil },
		},
	}
	s := NewUserService(repo, testConfig(), zap.NewNop())

	got, err := s.UpdateUserRole(context.Background(), testUserID, target, &request.UpdateUserRoleRequest{Role: "admin"})
	if err != nil {
		t.Fatalf("UpdateUserRole() error = %v", err)
	}
	if got.Role != "admin" {
		t.Errorf("role = %q, want admin", got.Role)
	}

	if _, err := s.UpdateUserRole(context.Background(), testUserID, target, &request.UpdateUserRoleRequest{Role: "owner"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown role error = %v, want invalid input", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	user := userWithPassword(t, "old-password", true)
	keep := ""
	repo := &repository.Repository{
		User: &mockUserRepo{
			FindByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) { return user, nil },
			UpdateFunc:   func(ctx context.Context, u *entity.User) error { return nil },
		},
		Session: &mockSessionRepo{RevokeOtherSessionsFunc: func(ctx context.Context, id uuid.UUID, token string) error {
			keep = token
			return nil
		}},
	}
	s := NewUserService(repo, testConfig(), zap.NewNop())
	ctx := context.Background()

	err := s.ChangePassword(ctx, testUserID, "current-token", &request.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("wrong current password error = %v", err)
	}

	if err := s.ChangePassword(ctx, testUserID, "current-token", &request.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if keep != "current-token" {
		t.Errorf("kept session = %q, want current-token", keep)
	}
}
