package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// DrawerReader defines read operations for drawer data.
type DrawerReader interface {
	// FindDrawerByID retrieves a specific drawer by its unique identifier.
	FindDrawerByID(ctx context.Context, drawerID string) (*domain.Drawer, error)

	// ListDrawersByTenant retrieves all drawers visible within a tenant.
	ListDrawersByTenant(ctx context.Context, tenantID string) ([]domain.Drawer, error)
}

// DrawerWriter defines write operations for drawer data. The lifecycle methods
// are atomic units: the status transition, balance update and lifecycle journal
// entry are applied in a single storage transaction, conditional on the current
// status so concurrent transitions cannot interleave.
type DrawerWriter interface {
	// SaveDrawer persists a new drawer (status CLOSED, zero balances).
	SaveDrawer(ctx context.Context, drawer domain.Drawer) error

	// OpenDrawer transitions CLOSED->OPEN, sets the opening balance and appends
	// the OPENING_BALANCE entry. Returns apperrors.ErrInvalidState if the drawer
	// is not CLOSED at commit time.
	OpenDrawer(ctx context.Context, drawerID string, openingBalance decimal.Decimal, userID string, now time.Time) (*domain.Drawer, error)

	// CloseDrawer transitions OPEN->CLOSED and appends a CLOSING_BALANCE entry
	// snapshotting the current balance. Returns apperrors.ErrInvalidState if the
	// drawer is not OPEN at commit time.
	CloseDrawer(ctx context.Context, drawerID string, userID string, now time.Time) (*domain.Drawer, error)

	// SetDrawerStatus flips status from expected current value to the target
	// value without touching balances or the journal (suspend/reinstate).
	SetDrawerStatus(ctx context.Context, drawerID string, from, to domain.DrawerStatus, userID string, now time.Time) (*domain.Drawer, error)

	// AppendEntry appends a journal entry to an OPEN drawer, assigning the next
	// sequence number and the resulting balance under the drawer's row lock.
	// Returns apperrors.ErrInvalidState if the drawer is not OPEN and
	// apperrors.ErrInsufficientFunds if the entry would take the balance negative.
	AppendEntry(ctx context.Context, drawerID string, kind domain.EntryKind, amount decimal.Decimal, description string, relatedTransferID *string, userID string, now time.Time) (*domain.JournalEntry, error)
}

// JournalReader defines read operations over the append-only journal.
type JournalReader interface {
	// ListEntries retrieves entries for a drawer ordered by sequence number,
	// optionally restricted to entries with occurredAt in [from, to).
	ListEntries(ctx context.Context, drawerID string, from, to *time.Time) ([]domain.JournalEntry, error)
}

// DrawerRepositoryFacade combines all drawer-related repository interfaces.
type DrawerRepositoryFacade interface {
	DrawerReader
	DrawerWriter
	JournalReader
}
