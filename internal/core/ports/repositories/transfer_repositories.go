package repositories

import (
	"context"
	"time"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// TransferFilter narrows transfer listings. Nil fields are ignored.
type TransferFilter struct {
	Status    *domain.TransferStatus
	Kind      *domain.TransferKind
	ActorID   *string // Matches either fromActorID or toActorID
	ToActorID *string // Matches toActorID only (pending-approval queries)
}

// TransferReader defines read operations for transfer request data.
type TransferReader interface {
	// FindTransferByID retrieves a specific transfer request.
	FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error)

	// ListTransfers retrieves transfer requests for a tenant ordered by
	// createdAt descending, token-paginated.
	ListTransfers(ctx context.Context, tenantID string, filter TransferFilter, limit int, nextToken *string) ([]domain.TransferRequest, *string, error)
}

// TransferWriter defines write operations for transfer request data.
type TransferWriter interface {
	// SaveTransfer persists a new PENDING transfer request.
	SaveTransfer(ctx context.Context, req domain.TransferRequest) error
}

// TransferResolver is the arbiter's storage contract. Both methods perform the
// PENDING -> terminal transition as a conditional update keyed on the current
// status, so a request is resolved at most once: the losing concurrent caller
// observes apperrors.ErrAlreadyResolved.
type TransferResolver interface {
	// ResolveEnvelope transitions the request envelope only (rejections of
	// either kind, approvals of ACCOUNT transfers). No journal mutation.
	ResolveEnvelope(ctx context.Context, requestID string, status domain.TransferStatus, resolverID, notes string, now time.Time) (*domain.TransferRequest, error)

	// ApproveDrawerTransfer executes the full approval of a DRAWER transfer in
	// one storage transaction: claim the PENDING envelope, lock both drawers,
	// re-check drawer state and source funds, debit the source with a
	// TRANSFER_OUT entry and credit the destination with a TRANSFER_IN entry,
	// both referencing the request. If the re-check fails the request is
	// resolved to REJECTED within the same transaction (a business outcome, not
	// an error) and the returned request carries the rejection note.
	ApproveDrawerTransfer(ctx context.Context, requestID string, resolverID, notes string, now time.Time) (*domain.TransferRequest, error)
}

// TransferRepositoryFacade combines all transfer-related repository interfaces.
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
	TransferResolver
}
