package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockSessions struct {
	FindValidSessionFunc func(ctx context.Context, token string) (*entity.Session, error)
}

func (m *mockSessions) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	return m.FindValidSessionFunc(ctx, token)
}

type mockUsers struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

func (m *mockUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func authFixture(role entity.UserRole, active bool) (uuid.UUID, *mockSessions, *mockUsers) {
	token := uuid.New()
	userID := uuid.New()

	sessions := &mockSessions{FindValidSessionFunc: func(_ context.Context, t string) (*entity.Session, error) {
		if t != token.String() {
			return nil, nil
		}
		return &entity.Session{UserID: userID, Token: token, ExpiresAt: time.Now().Add(time.Hour)}, nil
	}}
	users := &mockUsers{FindByIDFunc: func(_ context.Context, id uuid.UUID) (*entity.User, error) {
		if id != userID {
			return nil, nil
		}
		u := &entity.User{Role: role, IsActive: active}
		u.ID = userID
		return u, nil
	}}
	return token, sessions, users
}

func echoRole() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := utils.GetRoleFromContext(r.Context())
		w.Write([]byte(role))
	})
}

func TestAuthSession(t *testing.T) {
	token, sessions, users := authFixture(entity.RoleUser, true)
	inactiveToken, inactiveSessions, inactiveUsers := authFixture(entity.RoleUser, false)
	h := AuthSession(sessions, users, "session_token", zap.NewNop())(echoRole())

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		handler  http.Handler
		wantCode int
	}{
		{
			name:     "missing token",
			setup:    func(r *http.Request) {},
			handler:  h,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "bearer header",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token.String()) },
			handler:  h,
			wantCode: http.StatusOK,
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "session_token", Value: token.String()})
			},
			handler:  h,
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong scheme",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token.String()) },
			handler:  h,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown token",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+uuid.NewString()) },
			handler:  h,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "not a uuid",
			setup:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			handler:  h,
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive user",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+inactiveToken.String())
			},
			handler:  AuthSession(inactiveSessions, inactiveUsers, "session_token", zap.NewNop())(echoRole()),
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusOK && rec.Body.String() != string(entity.RoleUser) {
				t.Errorf("role in context = %q", rec.Body.String())
			}
		})
	}
}

func TestAuthSessionRepositoryError(t *testing.T) {
	sessions := &mockSessions{FindValidSessionFunc: func(context.Context, string) (*entity.Session, error) {
		return nil, errors.New("db down")
	}}
	h := AuthSession(sessions, &mockUsers{}, "session_token", zap.NewNop())(echoRole())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestOptionalSession(t *testing.T) {
	token, sessions, users := authFixture(entity.RoleUser, true)
	h := OptionalSession(sessions, users, "session_token", zap.NewNop())(echoRole())

	anon := httptest.NewRecorder()
	h.ServeHTTP(anon, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	if anon.Code != http.StatusOK || anon.Body.String() != "" {
		t.Errorf("anonymous: status %d body %q", anon.Code, anon.Body.String())
	}

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token.String())
	authed := httptest.NewRecorder()
	h.ServeHTTP(authed, req)
	if authed.Body.String() != string(entity.RoleUser) {
		t.Errorf("authenticated: body %q", authed.Body.String())
	}

	bad := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	bad.Header.Set("Authorization", "Bearer "+uuid.NewString())
	badRec := httptest.NewRecorder()
	h.ServeHTTP(badRec, bad)
	if badRec.Code != http.StatusOK {
		t.Errorf("stale token should fall back to anonymous, got %d", badRec.Code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       entity.UserRole
		mw         func(*zap.Logger) func(http.Handler) http.Handler
		wantStatus int
	}{
		{"admin allowed", entity.RoleAdmin, Admin, http.StatusOK},
		{"super admin allowed", entity.RoleSuperAdmin, Admin, http.StatusOK},
		{"user refused", entity.RoleUser, Admin, http.StatusForbidden},
		{"admin refused for super admin route", entity.RoleAdmin, SuperAdmin, http.StatusForbidden},
		{"super admin route", entity.RoleSuperAdmin, SuperAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
			req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(tt.role)))
			rec := httptest.NewRecorder()

			tt.mw(zap.NewNop())(echoRole()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	rec := httptest.NewRecorder()
	Admin(zap.NewNop())(echoRole()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no user: status = %d, want 401", rec.Code)
	}
}

type idempotentCall struct {
	token string
	key   string
	body  string
}

func newIdempotentBooking(t *testing.T) (func(idempotentCall) *httptest.ResponseRecorder, *int, uuid.UUID) {
	t.Helper()
	store := NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(store.Stop)

	token, sessions, users := authFixture(entity.RoleUser, true)
	calls := 0
	h := OptionalSession(sessions, users, "session_token", zap.NewNop())(
		Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			utils.ResponseCreated(w, "Booking created", map[string]any{
				"call":        calls,
				"guest_phone": payload["guest_phone"],
			})
		})),
	)

	send := func(c idempotentCall) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(c.body))
		if c.token != "" {
			req.AddCookie(&http.Cookie{Name: "session_token", Value: c.token})
		}
		if c.key != "" {
			req.Header.Set(IdempotencyHeader, c.key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	return send, &calls, token
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	send, calls, token := newIdempotentBooking(t)
	alice := idempotentCall{token: token.String(), key: "abc", body: `{"guest_phone":"555-0100"}`}

	first := send(alice)
	second := send(alice)

	if *calls != 1 {
		t.Fatalf("handler called %d times, want 1", *calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get(ReplayedHeader) != "true" {
		t.Error("expected replay header")
	}

	send(idempotentCall{token: alice.token, body: alice.body})
	send(idempotentCall{token: alice.token, key: "other", body: alice.body})
	if *calls != 3 {
		t.Errorf("handler called %d times, want 3", *calls)
	}
}

func TestIdempotencyKeyIsScopedToCaller(t *testing.T) {
	send, calls, token := newIdempotentBooking(t)

	alice := send(idempotentCall{token: token.String(), key: "checkout-1", body: `{"guest_phone":"555-0100"}`})
	if alice.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d", alice.Code)
	}

	guest := send(idempotentCall{key: "checkout-1", body: `{"guest_phone":"555-0199"}`})

	if *calls != 2 {
		t.Errorf("handler called %d times, want 2", *calls)
	}
	if guest.Header().Get(ReplayedHeader) != "" {
		t.Error("another caller got a replayed response")
	}
	if strings.Contains(guest.Body.String(), "555-0100") {
		t.Errorf("another caller saw the first booking: %s", guest.Body.String())
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	send, calls, token := newIdempotentBooking(t)

	send(idempotentCall{token: token.String(), key: "k1", body: `{"guest_phone":"555-0100"}`})
	rec := send(idempotentCall{token: token.String(), key: "k1", body: `{"guest_phone":"555-0111"}`})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if *calls != 1 {
		t.Errorf("handler called %d times, want 1", *calls)
	}
}

func TestIdempotencyInFlightKey(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var inner *httptest.ResponseRecorder
	var h http.Handler
	h = Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inner == nil {
			req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{}"))
			req.Header.Set(IdempotencyHeader, "pay-1")
			inner = httptest.NewRecorder()
			h.ServeHTTP(inner, req)
		}
		utils.ResponseCreated(w, "Payment recorded", nil)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{}"))
	req.Header.Set(IdempotencyHeader, "pay-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if inner.Code != http.StatusConflict {
		t.Errorf("concurrent duplicate status = %d, want 409", inner.Code)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("first request status = %d, want 201", rec.Code)
	}
}

func TestIdempotencySkipsFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	h := Idempotency(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("db down")
		}
		utils.ResponseConflict(w, "Room is not available for the selected dates")
	}))

	send := func() {
		defer func() { _ = recover() }()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		req.Header.Set(IdempotencyHeader, "same")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	for i := 0; i < 3; i++ {
		send()
	}

	if calls != 3 {
		t.Errorf("failed responses must not be cached, calls = %d", calls)
	}
}

func TestIdempotencyStoreExpiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if cached, err := store.Reserve("k", "fp"); cached != nil || err != nil {
		t.Fatalf("Reserve() = %v, %v", cached, err)
	}
	store.Complete("k", &CachedResponse{StatusCode: http.StatusCreated})

	if cached, err := store.Reserve("k", "fp"); err != nil || cached == nil {
		t.Fatalf("expected stored response, got %v, %v", cached, err)
	}

	now = now.Add(2 * time.Minute)
	if cached, err := store.Reserve("k", "other"); cached != nil || err != nil {
		t.Errorf("expired key should be claimable, got %v, %v", cached, err)
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://hotel.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	pre := httptest.NewRequest(http.MethodOptions, "/api/rooms", nil)
	pre.Header.Set("Origin", "https://hotel.example")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, pre)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://hotel.example" {
		t.Error("expected origin to be allowed")
	}

	other := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected CORS header for unknown origin")
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body utils.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
