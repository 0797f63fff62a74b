package utils

import (
	"context"

	"github.com/google/uuid"
)

// caller is what the session middleware learns about a request.
type caller struct {
	userID uuid.UUID
	role   string
	token  string
}

type callerKey struct{}

func callerFrom(ctx context.Context) caller {
	c, _ := ctx.Value(callerKey{}).(caller)
	return c
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	c := callerFrom(ctx)
	c.userID, c.role = userID, role
	return context.WithValue(ctx, callerKey{}, c)
}

// SetTokenContext records the session token that authenticated the request.
func SetTokenContext(ctx context.Context, token string) context.Context {
	c := callerFrom(ctx)
	c.token = token
	return context.WithValue(ctx, callerKey{}, c)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	c := callerFrom(ctx)
	return c.userID, c.userID != uuid.Nil
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	c := callerFrom(ctx)
	return c.role, c.role != ""
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	c := callerFrom(ctx)
	return c.token, c.token != ""
}

// CallerScope names the caller for per-caller caches: "user:<id>" for
// signed-in requests, "anon" otherwise.
func CallerScope(ctx context.Context) string {
	if id, ok := GetUserIDFromContext(ctx); ok {
		return "user:" + id.String()
	}
	return "anon"
}
