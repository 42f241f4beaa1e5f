package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
	"github.com/tillpoint/cashdesk_backend/internal/utils"
)

// ErrInvalidCredentials is returned for any login failure; it deliberately
// does not distinguish unknown usernames from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// userService manages operator accounts.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new operator. Elevated roles only; an admin cannot
// grant a role above its own standing (a manager cannot mint admins).
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: only elevated roles may create operators", apperrors.ErrForbidden)
	}
	if actor.Role == domain.RoleManager && req.Role != domain.RoleCashier {
		return nil, fmt.Errorf("%w: managers may only create cashiers", apperrors.ErrForbidden)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		TenantID:     actor.TenantID,
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ActorID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save user", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Operator created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves an operator within the actor's tenant.
func (s *userService) GetUserByID(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}
	return user, nil
}

// ListUsers retrieves operators within the actor's tenant.
func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, params dto.ListUsersParams) ([]domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	users, err := s.userRepo.FindUsers(ctx, actor.TenantID, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// UpdateUser updates an operator's details. Role changes require an elevated
// actor; operators may rename themselves.
func (s *userService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.GetUserByID(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if actor.ActorID != userID && !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: cannot update another operator", apperrors.ErrForbidden)
	}

	updated := false
	if req.Name != nil {
		user.Name = *req.Name
		updated = true
	}
	if req.Role != nil {
		if !actor.Role.IsElevated() {
			return nil, fmt.Errorf("%w: only elevated roles may change roles", apperrors.ErrForbidden)
		}
		user.Role = *req.Role
		updated = true
	}

	if !updated {
		return user, nil
	}

	now := time.Now().UTC()
	user.LastUpdatedAt = now
	user.LastUpdatedBy = actor.ActorID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		logger.Error("Failed to update user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	logger.Info("Operator updated", slog.String("user_id", userID))
	return user, nil
}

// DeleteUser soft-deletes an operator. Elevated only.
func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.IsElevated() {
		return fmt.Errorf("%w: only elevated roles may delete operators", apperrors.ErrForbidden)
	}
	if _, err := s.GetUserByID(ctx, actor, userID); err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), actor.ActorID); err != nil {
		logger.Error("Failed to delete user", slog.String("error", err.Error()), slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("Operator deleted", slog.String("user_id", userID))
	return nil
}

// VerifyCredentials checks a username/password pair for login.
func (s *userService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}

	if user.DeletedAt != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
