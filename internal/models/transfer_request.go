package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind tags the two transfer request variants.
type TransferKind string

// TransferStatus indicates where a request is in the approval workflow.
type TransferStatus string

const (
	TransferPending  TransferStatus = "PENDING"
	TransferApproved TransferStatus = "APPROVED"
	TransferRejected TransferStatus = "REJECTED"
)

// TransferRequest represents a transfer request row in the database.
// Status moves PENDING -> APPROVED/REJECTED exactly once; resolution is a
// conditional update keyed on the PENDING status.
type TransferRequest struct {
	RequestID       string          `db:"request_id"` // Primary Key (UUID)
	TenantID        string          `db:"tenant_id"`
	Kind            TransferKind    `db:"kind"`
	Amount          decimal.Decimal `db:"amount"`
	Status          TransferStatus  `db:"status"`
	FromActorID     string          `db:"from_actor_id"`
	ToActorID       string          `db:"to_actor_id"` // Empty for ACCOUNT transfers
	FromDrawerID    string          `db:"from_drawer_id"`
	ToDrawerID      string          `db:"to_drawer_id"`
	ToExternalAccID string          `db:"to_external_account_id"`
	Reason          string          `db:"reason"`
	Notes           string          `db:"notes"`
	ReferenceNumber string          `db:"reference_number"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
	RespondedAt     *time.Time      `db:"responded_at"`
	RespondedBy     *string         `db:"responded_by"`
}
