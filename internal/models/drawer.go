package models

import "github.com/shopspring/decimal"

// DrawerStatus indicates the lifecycle state of a cash drawer row.
type DrawerStatus string

const (
	DrawerClosed    DrawerStatus = "CLOSED"
	DrawerOpen      DrawerStatus = "OPEN"
	DrawerSuspended DrawerStatus = "SUSPENDED"
)

// Drawer represents a cash drawer row in the database.
type Drawer struct {
	DrawerID       string          `db:"drawer_id"` // Primary Key (UUID)
	TenantID       string          `db:"tenant_id"`
	OwnerID        string          `db:"owner_id"`
	Name           string          `db:"name"`
	Status         DrawerStatus    `db:"status"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	AuditFields
}
