package models

import "time"

// UserRole defines the role an operator holds within a tenant.
type UserRole string

// User represents an operator row in the database.
type User struct {
	UserID       string   `db:"user_id"` // Primary Key (UUID)
	TenantID     string   `db:"tenant_id"`
	Name         string   `db:"name"`
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Role         UserRole `db:"role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Used for soft delete
}
