package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
)

// DrawerRepository is the in-memory drawer and journal backing.
type DrawerRepository struct {
	store *Store
}

// Ensure DrawerRepository implements portsrepo.DrawerRepositoryFacade
var _ portsrepo.DrawerRepositoryFacade = (*DrawerRepository)(nil)

// SaveDrawer persists a new drawer.
func (r *DrawerRepository) SaveDrawer(_ context.Context, drawer domain.Drawer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.drawers[drawer.DrawerID]; exists {
		return fmt.Errorf("%w: drawer with ID %s already exists", apperrors.ErrDuplicate, drawer.DrawerID)
	}
	d := drawer
	r.store.drawers[drawer.DrawerID] = &d
	return nil
}

// FindDrawerByID retrieves a drawer by its ID.
func (r *DrawerRepository) FindDrawerByID(_ context.Context, drawerID string) (*domain.Drawer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.findDrawerLocked(drawerID)
}

// findDrawerLocked returns a copy of the drawer. Caller holds the store lock.
func (s *Store) findDrawerLocked(drawerID string) (*domain.Drawer, error) {
	d, ok := s.drawers[drawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

// ListDrawersByTenant retrieves all drawers within a tenant, ordered by name.
func (r *DrawerRepository) ListDrawersByTenant(_ context.Context, tenantID string) ([]domain.Drawer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	drawers := []domain.Drawer{}
	for _, d := range r.store.drawers {
		if d.TenantID == tenantID {
			drawers = append(drawers, *d)
		}
	}
	sort.Slice(drawers, func(i, j int) bool { return drawers[i].Name < drawers[j].Name })
	return drawers, nil
}

// appendEntryLocked assigns the next sequence number and appends the journal
// row. Caller holds the store lock.
func (s *Store) appendEntryLocked(drawerID string, kind domain.EntryKind, amount, balanceAfter decimal.Decimal, description string, relatedTransferID *string, userID string, now time.Time) domain.JournalEntry {
	entry := domain.JournalEntry{
		EntryID:           uuid.NewString(),
		DrawerID:          drawerID,
		SequenceNumber:    int64(len(s.entries[drawerID])) + 1,
		Kind:              kind,
		Amount:            amount,
		BalanceAfter:      balanceAfter,
		Description:       description,
		OccurredAt:        now,
		RelatedTransferID: relatedTransferID,
		CreatedBy:         userID,
	}
	s.entries[drawerID] = append(s.entries[drawerID], entry)
	return entry
}

// OpenDrawer transitions CLOSED->OPEN, sets the opening balance and appends the
// OPENING_BALANCE entry.
func (r *DrawerRepository) OpenDrawer(_ context.Context, drawerID string, openingBalance decimal.Decimal, userID string, now time.Time) (*domain.Drawer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.drawers[drawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if d.Status != domain.DrawerClosed {
		return nil, fmt.Errorf("%w: drawer %s is %s, not CLOSED", apperrors.ErrInvalidState, drawerID, d.Status)
	}

	delta := openingBalance.Sub(d.CurrentBalance)
	d.Status = domain.DrawerOpen
	d.OpeningBalance = openingBalance
	d.CurrentBalance = openingBalance
	d.LastUpdatedAt = now
	d.LastUpdatedBy = userID
	r.store.appendEntryLocked(drawerID, domain.EntryOpeningBalance, delta, openingBalance, "drawer opened", nil, userID, now)

	copied := *d
	return &copied, nil
}

// CloseDrawer transitions OPEN->CLOSED and appends a zero-amount
// CLOSING_BALANCE entry snapshotting the final balance.
func (r *DrawerRepository) CloseDrawer(_ context.Context, drawerID string, userID string, now time.Time) (*domain.Drawer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.drawers[drawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if d.Status != domain.DrawerOpen {
		return nil, fmt.Errorf("%w: drawer %s is %s, not OPEN", apperrors.ErrInvalidState, drawerID, d.Status)
	}

	d.Status = domain.DrawerClosed
	d.LastUpdatedAt = now
	d.LastUpdatedBy = userID
	r.store.appendEntryLocked(drawerID, domain.EntryClosingBalance, decimal.Zero, d.CurrentBalance, "drawer closed", nil, userID, now)

	copied := *d
	return &copied, nil
}

// SetDrawerStatus flips the status from an expected current value to a target
// value without touching balances or the journal.
func (r *DrawerRepository) SetDrawerStatus(_ context.Context, drawerID string, from, to domain.DrawerStatus, userID string, now time.Time) (*domain.Drawer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.drawers[drawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if d.Status != from {
		return nil, fmt.Errorf("%w: drawer %s is %s, not %s", apperrors.ErrInvalidState, drawerID, d.Status, from)
	}

	d.Status = to
	d.LastUpdatedAt = now
	d.LastUpdatedBy = userID

	copied := *d
	return &copied, nil
}

// AppendEntry appends a journal entry to an OPEN drawer.
func (r *DrawerRepository) AppendEntry(_ context.Context, drawerID string, kind domain.EntryKind, amount decimal.Decimal, description string, relatedTransferID *string, userID string, now time.Time) (*domain.JournalEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d, ok := r.store.drawers[drawerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if d.Status != domain.DrawerOpen {
		return nil, fmt.Errorf("%w: drawer %s is %s, not OPEN", apperrors.ErrInvalidState, drawerID, d.Status)
	}

	newBalance := d.CurrentBalance.Add(amount)
	if newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: drawer %s balance %s cannot absorb %s", apperrors.ErrInsufficientFunds, drawerID, d.CurrentBalance.String(), amount.String())
	}

	d.CurrentBalance = newBalance
	d.LastUpdatedAt = now
	d.LastUpdatedBy = userID
	entry := r.store.appendEntryLocked(drawerID, kind, amount, newBalance, description, relatedTransferID, userID, now)
	return &entry, nil
}

// ListEntries retrieves journal entries for a drawer ordered by sequence
// number, optionally restricted to occurredAt in [from, to).
func (r *DrawerRepository) ListEntries(_ context.Context, drawerID string, from, to *time.Time) ([]domain.JournalEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := []domain.JournalEntry{}
	for _, e := range r.store.entries[drawerID] {
		if from != nil && e.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && !e.OccurredAt.Before(*to) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}
