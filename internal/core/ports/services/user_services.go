package services

import (
	"context"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

// UserSvcFacade exposes operator management operations.
type UserSvcFacade interface {
	// CreateUser registers a new operator within the actor's tenant.
	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves an operator within the actor's tenant.
	GetUserByID(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error)

	// ListUsers retrieves operators within the actor's tenant.
	ListUsers(ctx context.Context, actor domain.Actor, params dto.ListUsersParams) ([]domain.User, error)

	// UpdateUser updates an operator's details.
	UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// DeleteUser soft-deletes an operator.
	DeleteUser(ctx context.Context, actor domain.Actor, userID string) error

	// VerifyCredentials checks a username/password pair for login.
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade issues access tokens carrying the (actor, tenant, role) tuple.
type TokenSvcFacade interface {
	// GenerateToken issues a signed JWT for the given operator.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
}
