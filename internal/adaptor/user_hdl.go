package adaptor

import (
	"net/http"

	"hotel-reservation/internal/dto/request"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// ChangePassword handles PUT /api/user/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	token, _ := utils.GetTokenFromContext(r.Context())

	var req request.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, token, &req); err != nil {
		handleServiceError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password changed successfully", nil)
}

// ListUsers handles GET /api/admin/users (admin only)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.UserListRequest{
		PaginatedRequest: request.NewPaginatedRequest(query),
		Role:             query.Get("role"),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	users, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// UpdateUserRole handles PUT /api/admin/users/{id}/role (super admin only)
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateUserRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), actorID, userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update user role")
		return
	}

	utils.ResponseSuccess(w, "User role updated successfully", user)
}

// SetUserActive handles PATCH /api/admin/users/{id}/active (admin only)
func (h *UserHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.SetUserActiveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.SetUserActive(r.Context(), actorID, userID, *req.IsActive)
	if err != nil {
		handleServiceError(w, h.log, err, "set user active")
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", user)
}

// DeleteUser handles DELETE /api/admin/users/{id} (admin only)
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actorID, userID); err != nil {
		handleServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
