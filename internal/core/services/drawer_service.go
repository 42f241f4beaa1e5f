package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
)

var (
	ErrNotDrawerOwner = errors.New("actor does not own this drawer")
	ErrZeroAmount     = errors.New("entry amount must not be zero")
)

// drawerService manages the drawer lifecycle: create, open, close, suspend,
// and the recording of non-transfer cash movements.
type drawerService struct {
	drawerRepo portsrepo.DrawerRepositoryFacade
}

// NewDrawerService creates a new DrawerService.
func NewDrawerService(drawerRepo portsrepo.DrawerRepositoryFacade) portssvc.DrawerSvcFacade {
	return &drawerService{drawerRepo: drawerRepo}
}

// Ensure drawerService implements the portssvc.DrawerSvcFacade interface
var _ portssvc.DrawerSvcFacade = (*drawerService)(nil)

// findDrawerInTenant fetches a drawer and verifies it belongs to the actor's
// tenant, returning ErrNotFound otherwise to obscure existence across tenants.
func (s *drawerService) findDrawerInTenant(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error) {
	drawer, err := s.drawerRepo.FindDrawerByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}
	return drawer, nil
}

// authorizeMutation checks that the actor may mutate the drawer: the owner, or
// any elevated role within the tenant.
func (s *drawerService) authorizeMutation(actor domain.Actor, drawer *domain.Drawer) error {
	if actor.Role.IsElevated() {
		return nil
	}
	if actor.ActorID != drawer.OwnerID {
		return fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotDrawerOwner)
	}
	return nil
}

// CreateDrawer registers a new drawer in CLOSED state with zero balances.
func (s *drawerService) CreateDrawer(ctx context.Context, actor domain.Actor, req dto.CreateDrawerRequest) (*domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = actor.ActorID
	}
	// Creating a drawer for another operator requires an elevated role.
	if ownerID != actor.ActorID && !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: only elevated roles may create drawers for other operators", apperrors.ErrForbidden)
	}

	now := time.Now().UTC()
	drawer := domain.Drawer{
		DrawerID:       uuid.NewString(),
		TenantID:       actor.TenantID,
		OwnerID:        ownerID,
		Name:           req.Name,
		Status:         domain.DrawerClosed,
		OpeningBalance: decimal.Zero,
		CurrentBalance: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.ActorID,
		},
	}

	if err := s.drawerRepo.SaveDrawer(ctx, drawer); err != nil {
		logger.Error("Failed to save drawer", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save drawer: %w", err)
	}

	logger.Info("Drawer created", slog.String("drawer_id", drawer.DrawerID), slog.String("owner_id", ownerID))
	return &drawer, nil
}

// OpenDrawer transitions a CLOSED drawer to OPEN. The repository performs the
// transition conditionally on the CLOSED status and writes the OPENING_BALANCE
// entry in the same storage transaction.
func (s *drawerService) OpenDrawer(ctx context.Context, actor domain.Actor, drawerID string, openingBalance decimal.Decimal) (*domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if openingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrInvalidAmount)
	}

	drawer, err := s.findDrawerInTenant(ctx, actor, drawerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, drawer); err != nil {
		return nil, err
	}

	opened, err := s.drawerRepo.OpenDrawer(ctx, drawerID, openingBalance, actor.ActorID, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to open drawer", slog.String("error", err.Error()), slog.String("drawer_id", drawerID))
		}
		return nil, err
	}

	logger.Info("Drawer opened", slog.String("drawer_id", drawerID), slog.String("opening_balance", openingBalance.String()))
	return opened, nil
}

// CloseDrawer transitions an OPEN drawer to CLOSED, snapshotting the balance in
// a CLOSING_BALANCE entry. Pending transfer requests drawn on this drawer are
// not rejected here; the approval arbiter handles them at resolution time.
func (s *drawerService) CloseDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	drawer, err := s.findDrawerInTenant(ctx, actor, drawerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, drawer); err != nil {
		return nil, err
	}

	closed, err := s.drawerRepo.CloseDrawer(ctx, drawerID, actor.ActorID, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) {
			logger.Error("Failed to close drawer", slog.String("error", err.Error()), slog.String("drawer_id", drawerID))
		}
		return nil, err
	}

	logger.Info("Drawer closed", slog.String("drawer_id", drawerID), slog.String("closing_balance", closed.CurrentBalance.String()))
	return closed, nil
}

// SuspendDrawer administratively blocks all mutation of a drawer. Elevated only.
func (s *drawerService) SuspendDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: only elevated roles may suspend drawers", apperrors.ErrForbidden)
	}
	if _, err := s.findDrawerInTenant(ctx, actor, drawerID); err != nil {
		return nil, err
	}

	suspended, err := s.drawerRepo.SetDrawerStatus(ctx, drawerID, domain.DrawerOpen, domain.DrawerSuspended, actor.ActorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Drawer suspended", slog.String("drawer_id", drawerID))
	return suspended, nil
}

// ReinstateDrawer lifts a suspension, returning the drawer to OPEN. Elevated only.
func (s *drawerService) ReinstateDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: only elevated roles may reinstate drawers", apperrors.ErrForbidden)
	}
	if _, err := s.findDrawerInTenant(ctx, actor, drawerID); err != nil {
		return nil, err
	}

	reinstated, err := s.drawerRepo.SetDrawerStatus(ctx, drawerID, domain.DrawerSuspended, domain.DrawerOpen, actor.ActorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	logger.Info("Drawer reinstated", slog.String("drawer_id", drawerID))
	return reinstated, nil
}

// signedEntryAmount applies the drawer-effect sign convention for a movement
// kind. Clients submit positive magnitudes; adjustments keep their given sign.
func signedEntryAmount(kind domain.EntryKind, amount decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case domain.EntrySalePayment:
		if amount.IsNegative() || amount.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: amount must be positive for %s", apperrors.ErrInvalidAmount, kind)
		}
		return amount, nil
	case domain.EntryChangeIssued, domain.EntryBankDeposit, domain.EntryExpensePayment:
		if amount.IsNegative() || amount.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: amount must be positive for %s", apperrors.ErrInvalidAmount, kind)
		}
		return amount.Neg(), nil
	case domain.EntryAdjustment:
		if amount.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrInvalidAmount, ErrZeroAmount)
		}
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: kind %s cannot be recorded directly", apperrors.ErrValidation, kind)
	}
}

// RecordEntry appends a cash movement to an OPEN drawer's journal. Transfer and
// lifecycle entries are written by the arbiter and the open/close transitions
// respectively, never through this path.
func (s *drawerService) RecordEntry(ctx context.Context, actor domain.Actor, drawerID string, req dto.RecordEntryRequest) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	signedAmount, err := signedEntryAmount(req.Kind, req.Amount)
	if err != nil {
		return nil, err
	}

	drawer, err := s.findDrawerInTenant(ctx, actor, drawerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMutation(actor, drawer); err != nil {
		return nil, err
	}

	entry, err := s.drawerRepo.AppendEntry(ctx, drawerID, req.Kind, signedAmount, req.Description, nil, actor.ActorID, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrInsufficientFunds) {
			logger.Error("Failed to append journal entry", slog.String("error", err.Error()), slog.String("drawer_id", drawerID))
		}
		return nil, err
	}

	logger.Info("Journal entry recorded",
		slog.String("drawer_id", drawerID),
		slog.String("kind", string(req.Kind)),
		slog.String("amount", signedAmount.String()),
		slog.Int64("sequence", entry.SequenceNumber),
	)
	return entry, nil
}

// GetDrawer retrieves a drawer visible within the actor's tenant.
func (s *drawerService) GetDrawer(ctx context.Context, actor domain.Actor, drawerID string) (*domain.Drawer, error) {
	return s.findDrawerInTenant(ctx, actor, drawerID)
}

// GetBalance retrieves the current balance of a drawer. Callers own their view
// freshness: re-query after any mutating call instead of caching.
func (s *drawerService) GetBalance(ctx context.Context, actor domain.Actor, drawerID string) (decimal.Decimal, error) {
	drawer, err := s.findDrawerInTenant(ctx, actor, drawerID)
	if err != nil {
		return decimal.Zero, err
	}
	return drawer.CurrentBalance, nil
}

// ListDrawers retrieves all drawers in the actor's tenant.
func (s *drawerService) ListDrawers(ctx context.Context, actor domain.Actor) ([]domain.Drawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	drawers, err := s.drawerRepo.ListDrawersByTenant(ctx, actor.TenantID)
	if err != nil {
		logger.Error("Failed to list drawers", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list drawers: %w", err)
	}
	if drawers == nil {
		drawers = []domain.Drawer{}
	}
	return drawers, nil
}
