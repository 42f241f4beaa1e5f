package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	"github.com/tillpoint/cashdesk_backend/internal/utils/pagination"
)

// TransferRepository is the in-memory transfer request backing.
type TransferRepository struct {
	store *Store
}

// Ensure TransferRepository implements portsrepo.TransferRepositoryFacade
var _ portsrepo.TransferRepositoryFacade = (*TransferRepository)(nil)

// SaveTransfer persists a new PENDING transfer request.
func (r *TransferRepository) SaveTransfer(_ context.Context, req domain.TransferRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.transfers[req.RequestID]; exists {
		return fmt.Errorf("%w: transfer request %s already exists", apperrors.ErrDuplicate, req.RequestID)
	}
	t := req
	r.store.transfers[req.RequestID] = &t
	return nil
}

// FindTransferByID retrieves a transfer request by its ID.
func (r *TransferRepository) FindTransferByID(_ context.Context, requestID string) (*domain.TransferRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transfers[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func matchesFilter(t *domain.TransferRequest, filter portsrepo.TransferFilter) bool {
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.Kind != nil && t.Kind != *filter.Kind {
		return false
	}
	if filter.ActorID != nil && t.FromActorID != *filter.ActorID && t.ToActorID != *filter.ActorID {
		return false
	}
	if filter.ToActorID != nil && t.ToActorID != *filter.ToActorID {
		return false
	}
	return true
}

// ListTransfers retrieves transfer requests for a tenant ordered by createdAt
// descending with requestID as tie-breaker, using token-based pagination.
func (r *TransferRepository) ListTransfers(_ context.Context, tenantID string, filter portsrepo.TransferFilter, limit int, nextToken *string) ([]domain.TransferRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	r.store.mu.Lock()
	matched := []domain.TransferRequest{}
	for _, t := range r.store.transfers {
		if t.TenantID == tenantID && matchesFilter(t, filter) {
			matched = append(matched, *t)
		}
	}
	r.store.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].RequestID > matched[j].RequestID
	})

	start := 0
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastRequestID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		for i, t := range matched {
			if t.CreatedAt.Before(lastCreatedAt) || (t.CreatedAt.Equal(lastCreatedAt) && t.RequestID < lastRequestID) {
				start = i
				break
			}
			start = len(matched)
		}
	}

	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	page := matched[start:end]

	var nextTokenVal *string
	if end < len(matched) && len(page) > 0 {
		last := page[len(page)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
	}
	return page, nextTokenVal, nil
}

// resolveLocked performs the conditional PENDING -> terminal transition.
// Caller holds the store lock. The losing concurrent resolver observes
// ErrAlreadyResolved, never a double application.
func (s *Store) resolveLocked(requestID string, status domain.TransferStatus, resolverID, notes string, now time.Time) (*domain.TransferRequest, error) {
	t, ok := s.transfers[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if t.Status != domain.TransferPending {
		return nil, fmt.Errorf("%w: transfer request %s is %s", apperrors.ErrAlreadyResolved, requestID, t.Status)
	}

	t.Status = status
	t.Notes = notes
	t.RespondedAt = &now
	t.RespondedBy = &resolverID
	copied := *t
	return &copied, nil
}

// ResolveEnvelope transitions the request envelope only.
func (r *TransferRepository) ResolveEnvelope(_ context.Context, requestID string, status domain.TransferStatus, resolverID, notes string, now time.Time) (*domain.TransferRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.resolveLocked(requestID, status, resolverID, notes, now)
}

// ApproveDrawerTransfer executes the full approval of a DRAWER transfer under
// the store lock: re-check both drawers and source funds, then move the cash
// with paired TRANSFER_OUT/TRANSFER_IN entries. Re-check failures resolve the
// request to REJECTED, a consumed business outcome.
func (r *TransferRepository) ApproveDrawerTransfer(_ context.Context, requestID string, resolverID, notes string, now time.Time) (*domain.TransferRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.transfers[requestID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if t.Status != domain.TransferPending {
		return nil, fmt.Errorf("%w: transfer request %s is %s", apperrors.ErrAlreadyResolved, requestID, t.Status)
	}
	if t.Kind != domain.TransferDrawer {
		return nil, fmt.Errorf("%w: transfer request %s is not a drawer transfer", apperrors.ErrInvalidState, requestID)
	}

	source, ok := r.store.drawers[t.FromDrawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	dest, ok := r.store.drawers[t.ToDrawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	if rejection := r.rejectionNote(source, dest, t); rejection != "" {
		return r.store.resolveLocked(requestID, domain.TransferRejected, resolverID, rejection, now)
	}

	description := "transfer " + t.ReferenceNumber

	source.CurrentBalance = source.CurrentBalance.Sub(t.Amount)
	source.LastUpdatedAt = now
	source.LastUpdatedBy = resolverID
	r.store.appendEntryLocked(source.DrawerID, domain.EntryTransferOut, t.Amount.Neg(), source.CurrentBalance, description, &t.RequestID, resolverID, now)

	dest.CurrentBalance = dest.CurrentBalance.Add(t.Amount)
	dest.LastUpdatedAt = now
	dest.LastUpdatedBy = resolverID
	r.store.appendEntryLocked(dest.DrawerID, domain.EntryTransferIn, t.Amount, dest.CurrentBalance, description, &t.RequestID, resolverID, now)

	return r.store.resolveLocked(requestID, domain.TransferApproved, resolverID, notes, now)
}

// rejectionNote returns a non-empty note when the drawers can no longer carry
// the transfer.
func (r *TransferRepository) rejectionNote(source, dest *domain.Drawer, t *domain.TransferRequest) string {
	if source.Status != domain.DrawerOpen {
		return "rejected: source drawer is " + string(source.Status)
	}
	if dest.Status != domain.DrawerOpen {
		return "rejected: destination drawer is " + string(dest.Status)
	}
	if source.CurrentBalance.LessThan(t.Amount) {
		return "rejected: insufficient funds (balance " + source.CurrentBalance.String() + ", requested " + t.Amount.String() + ")"
	}
	return ""
}
