package middleware

import (
	"context"
	"net/http"
	"strings"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SessionFinder interface {
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// SessionToken reads the token from the session cookie first, then from an
// "Authorization: Bearer <token>" header.
func SessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type authResult int

const (
	authOK authResult = iota
	authMissing
	authInvalid
	authFailed
)

func resolveUser(r *http.Request, sessions SessionFinder, users UserFinder, cookieName string, logger *zap.Logger) (context.Context, authResult) {
	token := SessionToken(r, cookieName)
	if token == "" {
		return nil, authMissing
	}
	if _, err := uuid.Parse(token); err != nil {
		return nil, authInvalid
	}

	session, err := sessions.FindValidSession(r.Context(), token)
	if err != nil {
		logger.Error("Failed to validate session", zap.Error(err))
		return nil, authFailed
	}
	if session == nil {
		return nil, authInvalid
	}

	user, err := users.FindByID(r.Context(), session.UserID)
	if err != nil {
		logger.Error("Failed to load session user",
			zap.Error(err), zap.String("user_id", session.UserID.String()))
		return nil, authFailed
	}
	if user == nil || !user.IsActive {
		return nil, authInvalid
	}

	ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
	ctx = utils.SetTokenContext(ctx, token)
	return ctx, authOK
}

// AuthSession rejects requests without a valid, unexpired session.
func AuthSession(sessions SessionFinder, users UserFinder, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, result := resolveUser(r, sessions, users, cookieName, logger)
			switch result {
			case authMissing:
				utils.ResponseUnauthorized(w, "Missing session token")
				return
			case authInvalid:
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			case authFailed:
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the user when a valid session is present and
// otherwise lets the request through anonymously.
func OptionalSession(sessions SessionFinder, users UserFinder, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, result := resolveUser(r, sessions, users, cookieName, logger)
			switch result {
			case authOK:
				next.ServeHTTP(w, r.WithContext(ctx))
			case authFailed:
				utils.ResponseInternalError(w, "Internal server error")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// Admin requires a role of admin or super_admin. Must run after AuthSession.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole(logger, "Admin access required", entity.UserRole.IsStaff)
}

// SuperAdmin requires the super_admin role. Must run after AuthSession.
func SuperAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return requireRole(logger, "Super admin access required", func(r entity.UserRole) bool {
		return r == entity.RoleSuperAdmin
	})
}

func requireRole(logger *zap.Logger, message string, allowed func(entity.UserRole) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if !allowed(entity.UserRole(role)) {
				logger.Warn("Role check failed",
					zap.String("user_id", userID.String()),
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
