package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind tags the two transfer request variants sharing one workflow.
type TransferKind string

const (
	// TransferDrawer moves cash between two drawers inside the tenant.
	TransferDrawer TransferKind = "DRAWER"
	// TransferAccount moves cash from a drawer to an external bank/payment account.
	// Settlement happens outside the system; approval only updates the envelope.
	TransferAccount TransferKind = "ACCOUNT"
)

// TransferStatus indicates where a request is in the approval workflow.
// APPROVED and REJECTED are terminal; a request is resolved exactly once.
type TransferStatus string

const (
	TransferPending  TransferStatus = "PENDING"
	TransferApproved TransferStatus = "APPROVED"
	TransferRejected TransferStatus = "REJECTED"
)

// IsTerminal reports whether no further status transition is permitted.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferApproved || s == TransferRejected
}

// ResolutionDecision is the verdict an approver passes to the arbiter.
type ResolutionDecision string

const (
	DecisionApprove ResolutionDecision = "APPROVE"
	DecisionReject  ResolutionDecision = "REJECT"
)

// TransferRequest is a proposal to move value out of a drawer, subject to
// approval. The Kind tag selects which destination fields are meaningful:
// DRAWER carries ToDrawerID, ACCOUNT carries ToExternalAccountID.
type TransferRequest struct {
	RequestID       string          `json:"requestID"` // Primary Key (UUID)
	TenantID        string          `json:"tenantID"`
	Kind            TransferKind    `json:"kind"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	Status          TransferStatus  `json:"status"`
	FromActorID     string          `json:"fromActorID"` // Owner of the source drawer at creation
	ToActorID       string          `json:"toActorID"`   // Recipient; empty for ACCOUNT transfers
	FromDrawerID    string          `json:"fromDrawerID"`
	ToDrawerID      string          `json:"toDrawerID,omitempty"`          // DRAWER kind only
	ToExternalAccID string          `json:"toExternalAccountID,omitempty"` // ACCOUNT kind only; opaque reference
	Reason          string          `json:"reason"`
	Notes           string          `json:"notes"` // Set by the resolver
	ReferenceNumber string          `json:"referenceNumber"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
	RespondedAt     *time.Time      `json:"respondedAt,omitempty"`
	RespondedBy     *string         `json:"respondedBy,omitempty"`
}

// CanBeResolvedBy is the single authorization predicate for resolving a
// request: the addressed recipient, or any elevated role within the tenant.
// The arbiter and the pending-approvals query both use this and must not drift.
func (t *TransferRequest) CanBeResolvedBy(actor Actor) bool {
	if actor.TenantID != t.TenantID {
		return false
	}
	if actor.Role.IsElevated() {
		return true
	}
	return t.ToActorID != "" && actor.ActorID == t.ToActorID
}
