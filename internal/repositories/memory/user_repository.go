package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
)

// UserRepository is the in-memory operator backing.
type UserRepository struct {
	store *Store
}

// Ensure UserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

// SaveUser persists a new user.
func (r *UserRepository) SaveUser(_ context.Context, user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[user.UserID]; exists {
		return fmt.Errorf("%w: user with ID %s already exists", apperrors.ErrDuplicate, user.UserID)
	}
	for _, u := range r.store.users {
		if u.Username == user.Username && u.DeletedAt == nil {
			return fmt.Errorf("%w: username %s already taken", apperrors.ErrDuplicate, user.Username)
		}
	}
	u := user
	r.store.users[user.UserID] = &u
	return nil
}

// FindUserByID retrieves a user by ID. Soft-deleted users are not returned.
func (r *UserRepository) FindUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// FindUserByUsername retrieves a user by login name, for authentication.
func (r *UserRepository) FindUserByUsername(_ context.Context, username string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if u.Username == username && u.DeletedAt == nil {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// FindUsers retrieves a paginated list of users within a tenant.
func (r *UserRepository) FindUsers(_ context.Context, tenantID string, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	users := []domain.User{}
	for _, u := range r.store.users {
		if u.TenantID == tenantID && u.DeletedAt == nil {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].UserID < users[j].UserID
	})

	if offset >= len(users) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(users) {
		end = len(users)
	}
	return users[offset:end], nil
}

// UpdateUser updates an existing user's details.
func (r *UserRepository) UpdateUser(_ context.Context, user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[user.UserID]
	if !ok || u.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	u.Name = user.Name
	u.Role = user.Role
	u.LastUpdatedAt = user.LastUpdatedAt
	u.LastUpdatedBy = user.LastUpdatedBy
	return nil
}

// MarkUserDeleted marks a user as deleted (soft delete).
func (r *UserRepository) MarkUserDeleted(_ context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.DeletedAt != nil {
		return apperrors.ErrNotFound
	}
	u.DeletedAt = &deletedAt
	u.LastUpdatedAt = deletedAt
	u.LastUpdatedBy = deletedBy
	return nil
}
