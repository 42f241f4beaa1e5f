package domain

import "time"

// UserRole defines the role an operator holds within a tenant.
type UserRole string

const (
	RoleCashier    UserRole = "CASHIER"
	RoleManager    UserRole = "MANAGER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperadmin UserRole = "SUPERADMIN"
)

// IsElevated reports whether the role may act on entities it does not own,
// e.g. resolve transfer requests addressed to another operator.
func (r UserRole) IsElevated() bool {
	switch r {
	case RoleManager, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User represents an operator of the back office in the domain.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	TenantID     string   `json:"tenantID"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// Actor is the identity tuple supplied with every call into the core.
// Authentication happens upstream; the core only makes authorization decisions.
type Actor struct {
	ActorID  string
	TenantID string
	Role     UserRole
}
