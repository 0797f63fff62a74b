package adaptor

import (
	"net"
	"net/http"
	"time"

	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/dto/response"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	session utils.SessionConfig
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, session utils.SessionConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		session: session,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return usecase.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, auth *response.AuthResponse) {
	if auth.Token == "" || auth.ExpiresAt == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    auth.Token,
		Path:     "/",
		Expires:  *auth.ExpiresAt,
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	auth, err := h.service.Register(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	h.setSessionCookie(w, auth)
	utils.ResponseCreated(w, "Registration successful", auth)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	auth, err := h.service.Login(r.Context(), &req, clientInfo(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	h.setSessionCookie(w, auth)
	utils.ResponseSuccess(w, "Login successful", auth)
}

// Logout handles POST /api/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	h.clearSessionCookie(w)
	utils.ResponseSuccess(w, "Logout successful", nil)
}
