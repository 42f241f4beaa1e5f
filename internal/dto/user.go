package dto

import (
	"time"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register an operator.
type CreateUserRequest struct {
	Name     string          `json:"name" binding:"required"`
	Username string          `json:"username" binding:"required,min=3"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=CASHIER MANAGER ADMIN SUPERADMIN"`
}

// UpdateUserRequest defines the data allowed for updating an operator.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateUserRequest struct {
	Name *string          `json:"name"`
	Role *domain.UserRole `json:"role" binding:"omitempty,oneof=CASHIER MANAGER ADMIN SUPERADMIN"`
}

// UserResponse defines the data returned for an operator.
type UserResponse struct {
	UserID    string          `json:"userID"`
	TenantID  string          `json:"tenantID"`
	Name      string          `json:"name"`
	Username  string          `json:"username"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListUsersParams defines query parameters for listing operators.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		TenantID:  u.TenantID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to response DTOs.
func ToListUserResponse(users []domain.User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = ToUserResponse(&users[i])
	}
	return res
}
