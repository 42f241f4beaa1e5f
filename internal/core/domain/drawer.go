package domain

import "github.com/shopspring/decimal"

// DrawerStatus indicates the lifecycle state of a cash drawer.
type DrawerStatus string

const (
	DrawerClosed    DrawerStatus = "CLOSED"
	DrawerOpen      DrawerStatus = "OPEN"
	DrawerSuspended DrawerStatus = "SUSPENDED" // Administrative override; blocks all mutation
)

// Drawer represents a per-operator physical cash balance tracked by the ledger.
//
// Invariant: CurrentBalance equals OpeningBalance plus the sum of journal entry
// amounts appended since the drawer was last opened.
type Drawer struct {
	DrawerID       string          `json:"drawerID"` // Primary Key (UUID)
	TenantID       string          `json:"tenantID"`
	OwnerID        string          `json:"ownerID"` // Operator who mutates this drawer
	Name           string          `json:"name"`    // e.g. "Front register 1"
	Status         DrawerStatus    `json:"status"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // Snapshot at last open
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AuditFields
}
