package services

import (
	"context"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

// TransferSvcFacade exposes creation and listing of transfer requests.
type TransferSvcFacade interface {
	// CreateDrawerTransfer proposes a drawer-to-drawer transfer (status PENDING).
	CreateDrawerTransfer(ctx context.Context, actor domain.Actor, req dto.CreateDrawerTransferRequest) (*domain.TransferRequest, error)

	// CreateAccountTransfer proposes a drawer-to-external-account transfer.
	CreateAccountTransfer(ctx context.Context, actor domain.Actor, req dto.CreateAccountTransferRequest) (*domain.TransferRequest, error)

	// GetTransfer retrieves a transfer request within the actor's tenant.
	GetTransfer(ctx context.Context, actor domain.Actor, requestID string) (*domain.TransferRequest, error)

	// ListTransfers lists transfer requests ordered by createdAt descending.
	ListTransfers(ctx context.Context, actor domain.Actor, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error)
}

// ApprovalSvcFacade is the arbiter: it resolves PENDING requests exactly once.
type ApprovalSvcFacade interface {
	// Resolve transitions a PENDING request to APPROVED or REJECTED. The
	// resolving actor must be the request's recipient or hold an elevated role.
	Resolve(ctx context.Context, actor domain.Actor, requestID string, req dto.ResolveTransferRequest) (*domain.TransferRequest, error)
}

// LedgerQuerySvcFacade exposes read-only aggregation over the ledger.
type LedgerQuerySvcFacade interface {
	// GetJournal retrieves a drawer's journal for an optional date range along
	// with the period summary (total in, total out, net change).
	GetJournal(ctx context.Context, actor domain.Actor, drawerID string, params dto.GetJournalParams) (*dto.JournalResponse, error)

	// ListPendingApprovals lists PENDING requests the actor may resolve, using
	// the same predicate as the arbiter's authorization check.
	ListPendingApprovals(ctx context.Context, actor domain.Actor) ([]domain.TransferRequest, error)
}
