package request

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,min=6,max=30"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin super_admin"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserListRequest struct {
	PaginatedRequest
	Role string `validate:"omitempty,oneof=user admin super_admin"`
}
