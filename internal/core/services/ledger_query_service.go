package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
)

// pendingApprovalsPageSize bounds how many pending requests a single listing
// walks through. Back-office approval queues are short; one page suffices.
const pendingApprovalsPageSize = 200

// ledgerQueryService is the read-only aggregation surface consumed by
// reporting. It shares the store with the arbiter but never its write path.
type ledgerQueryService struct {
	drawerRepo   portsrepo.DrawerRepositoryFacade
	transferRepo portsrepo.TransferRepositoryFacade
}

// NewLedgerQueryService creates a new LedgerQueryService.
func NewLedgerQueryService(drawerRepo portsrepo.DrawerRepositoryFacade, transferRepo portsrepo.TransferRepositoryFacade) portssvc.LedgerQuerySvcFacade {
	return &ledgerQueryService{
		drawerRepo:   drawerRepo,
		transferRepo: transferRepo,
	}
}

// Ensure ledgerQueryService implements the portssvc.LedgerQuerySvcFacade interface
var _ portssvc.LedgerQuerySvcFacade = (*ledgerQueryService)(nil)

// summarize reduces a slice of entries to period totals.
// totalIn sums positive amounts, totalOut sums |amount| of negative amounts,
// and netChange = totalIn - totalOut, which for a contiguous range equals
// balanceAfter(last) - balanceAfter(entry before the range).
func summarize(entries []domain.JournalEntry) domain.PeriodSummary {
	totalIn := decimal.Zero
	totalOut := decimal.Zero
	for _, e := range entries {
		if e.Amount.IsPositive() {
			totalIn = totalIn.Add(e.Amount)
		} else {
			totalOut = totalOut.Add(e.Amount.Neg())
		}
	}
	return domain.PeriodSummary{
		TotalIn:   totalIn,
		TotalOut:  totalOut,
		NetChange: totalIn.Sub(totalOut),
	}
}

// GetJournal retrieves a drawer's journal entries for an optional date range,
// ordered by sequence number, together with the period summary.
func (s *ledgerQueryService) GetJournal(ctx context.Context, actor domain.Actor, drawerID string, params dto.GetJournalParams) (*dto.JournalResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	drawer, err := s.drawerRepo.FindDrawerByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}

	entries, err := s.drawerRepo.ListEntries(ctx, drawerID, params.From, params.To)
	if err != nil {
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()), slog.String("drawer_id", drawerID))
		return nil, fmt.Errorf("failed to retrieve journal entries: %w", err)
	}

	resp := &dto.JournalResponse{
		DrawerID: drawerID,
		Entries:  dto.ToJournalEntryResponses(entries),
		Summary:  summarize(entries),
	}

	logger.Debug("Journal retrieved", slog.String("drawer_id", drawerID), slog.Int("entry_count", len(entries)))
	return resp, nil
}

// ListPendingApprovals lists PENDING requests the actor may resolve. The
// filter narrows the fetch, but the final word belongs to the same
// CanBeResolvedBy predicate the arbiter enforces, so the two cannot drift.
func (s *ledgerQueryService) ListPendingApprovals(ctx context.Context, actor domain.Actor) ([]domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pending := domain.TransferPending
	filter := portsrepo.TransferFilter{Status: &pending}
	if !actor.Role.IsElevated() {
		filter.ToActorID = &actor.ActorID
	}

	transfers, _, err := s.transferRepo.ListTransfers(ctx, actor.TenantID, filter, pendingApprovalsPageSize, nil)
	if err != nil {
		logger.Error("Failed to list pending approvals", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve pending approvals: %w", err)
	}

	result := make([]domain.TransferRequest, 0, len(transfers))
	for _, t := range transfers {
		if t.CanBeResolvedBy(actor) {
			result = append(result, t)
		}
	}

	logger.Debug("Pending approvals listed", slog.Int("count", len(result)))
	return result, nil
}
