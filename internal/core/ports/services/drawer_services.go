package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
)

// DrawerSvcFacade exposes the drawer lifecycle operations.
type DrawerSvcFacade interface {
	// CreateDrawer registers a new drawer (status CLOSED) for an owner.
	CreateDrawer(ctx context.Context, actor domain.Actor, req dto.CreateDrawerRequest) (*domain.Drawer, error)

	// OpenDrawer transitions a CLOSED drawer to OPEN with the given opening balance.
	OpenDrawer(ctx context.Context, actor domain.Actor, drawerID string, openingBalance decimal.Decimal) (*domain.Drawer, error)

	// CloseDrawer transitions an OPEN drawer to CLOSED, snapshotting its balance.
	CloseDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error)

	// SuspendDrawer administratively blocks all mutation of a drawer.
	SuspendDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error)

	// ReinstateDrawer lifts a suspension, returning the drawer to OPEN.
	ReinstateDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error)

	// RecordEntry appends a cash movement (sale, change, deposit, expense,
	// adjustment) to an OPEN drawer's journal.
	RecordEntry(ctx context.Context, actor domain.Actor, drawerID string, req dto.RecordEntryRequest) (*domain.JournalEntry, error)

	// GetDrawer retrieves a drawer visible within the actor's tenant.
	GetDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error)

	// GetBalance retrieves the current balance of a drawer.
	GetBalance(ctx context.Context, actor domain.Actor, drawerID string) (decimal.Decimal, error)

	// ListDrawers retrieves all drawers in the actor's tenant.
	ListDrawers(ctx context.Context, actor domain.Actor) ([]domain.Drawer, error)
}
