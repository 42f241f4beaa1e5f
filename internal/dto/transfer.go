package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// CreateDrawerTransferRequest defines the data needed to propose a
// drawer-to-drawer transfer.
type CreateDrawerTransferRequest struct {
	FromDrawerID string          `json:"fromDrawerID" binding:"required"`
	ToDrawerID   string          `json:"toDrawerID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Reason       string          `json:"reason"`
}

// CreateAccountTransferRequest defines the data needed to propose a
// drawer-to-external-account transfer. The account reference is opaque;
// settlement happens outside the system.
type CreateAccountTransferRequest struct {
	FromDrawerID        string          `json:"fromDrawerID" binding:"required"`
	ToExternalAccountID string          `json:"toExternalAccountID" binding:"required"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Reason              string          `json:"reason"`
}

// ResolveTransferRequest defines the approver's verdict.
type ResolveTransferRequest struct {
	Decision domain.ResolutionDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Notes    string                    `json:"notes"`
}

// ListTransfersParams defines query parameters for listing transfer requests.
type ListTransfersParams struct {
	Status    *domain.TransferStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Kind      *domain.TransferKind   `form:"kind" binding:"omitempty,oneof=DRAWER ACCOUNT"`
	ActorID   *string                `form:"actorID"`
	Limit     int                    `form:"limit,default=20"`
	NextToken *string                `form:"nextToken"`
}

// TransferResponse defines the data returned for a transfer request.
type TransferResponse struct {
	RequestID           string                `json:"requestID"`
	TenantID            string                `json:"tenantID"`
	Kind                domain.TransferKind   `json:"kind"`
	Amount              decimal.Decimal       `json:"amount"`
	Status              domain.TransferStatus `json:"status"`
	FromActorID         string                `json:"fromActorID"`
	ToActorID           string                `json:"toActorID,omitempty"`
	FromDrawerID        string                `json:"fromDrawerID"`
	ToDrawerID          string                `json:"toDrawerID,omitempty"`
	ToExternalAccountID string                `json:"toExternalAccountID,omitempty"`
	Reason              string                `json:"reason"`
	Notes               string                `json:"notes"`
	ReferenceNumber     string                `json:"referenceNumber"`
	CreatedAt           time.Time             `json:"createdAt"`
	RespondedAt         *time.Time            `json:"respondedAt,omitempty"`
	RespondedBy         *string               `json:"respondedBy,omitempty"`
}

// ListTransfersResponse wraps a page of transfer requests.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTransferResponse converts a domain.TransferRequest to its DTO.
func ToTransferResponse(t *domain.TransferRequest) TransferResponse {
	return TransferResponse{
		RequestID:           t.RequestID,
		TenantID:            t.TenantID,
		Kind:                t.Kind,
		Amount:              t.Amount,
		Status:              t.Status,
		FromActorID:         t.FromActorID,
		ToActorID:           t.ToActorID,
		FromDrawerID:        t.FromDrawerID,
		ToDrawerID:          t.ToDrawerID,
		ToExternalAccountID: t.ToExternalAccID,
		Reason:              t.Reason,
		Notes:               t.Notes,
		ReferenceNumber:     t.ReferenceNumber,
		CreatedAt:           t.CreatedAt,
		RespondedAt:         t.RespondedAt,
		RespondedBy:         t.RespondedBy,
	}
}

// ToTransferResponses converts a slice of transfer requests to DTOs.
func ToTransferResponses(transfers []domain.TransferRequest) []TransferResponse {
	res := make([]TransferResponse, len(transfers))
	for i := range transfers {
		res[i] = ToTransferResponse(&transfers[i])
	}
	return res
}
