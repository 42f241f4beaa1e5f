package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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
	ErrSameDrawer          = errors.New("source and destination drawers must differ")
	ErrSourceDrawerNotOpen = errors.New("source drawer is not open")
	ErrDestDrawerNotOpen   = errors.New("destination drawer is not open")
)

// transferService creates and lists transfer requests. Resolution belongs to
// the approval service.
type transferService struct {
	transferRepo portsrepo.TransferRepositoryFacade
	drawerRepo   portsrepo.DrawerRepositoryFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(transferRepo portsrepo.TransferRepositoryFacade, drawerRepo portsrepo.DrawerRepositoryFacade) portssvc.TransferSvcFacade {
	return &transferService{
		transferRepo: transferRepo,
		drawerRepo:   drawerRepo,
	}
}

// Ensure transferService implements the portssvc.TransferSvcFacade interface
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// newReferenceNumber builds a human-readable reference for a transfer request,
// e.g. TRF-20260827-9F3A21C4.
func newReferenceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRF-%s-%s", now.Format("20060102"), suffix)
}

// validateSourceDrawer fetches the source drawer and runs the creation-time
// checks: tenant scope, ownership, open status and a best-effort funds check.
// The funds check is re-validated atomically at approval time; a race here only
// delays the insufficient-funds outcome, it cannot corrupt a balance.
func (s *transferService) validateSourceDrawer(ctx context.Context, actor domain.Actor, drawerID string, amount decimal.Decimal) (*domain.Drawer, error) {
	drawer, err := s.drawerRepo.FindDrawerByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}
	if drawer.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}
	if drawer.OwnerID != actor.ActorID && !actor.Role.IsElevated() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrForbidden, ErrNotDrawerOwner)
	}
	if drawer.Status != domain.DrawerOpen {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrSourceDrawerNotOpen)
	}
	if amount.GreaterThan(drawer.CurrentBalance) {
		return nil, fmt.Errorf("%w: drawer %s holds %s, requested %s",
			apperrors.ErrInsufficientFunds, drawerID, drawer.CurrentBalance.String(), amount.String())
	}
	return drawer, nil
}

// CreateDrawerTransfer proposes a drawer-to-drawer transfer (status PENDING).
func (s *transferService) CreateDrawerTransfer(ctx context.Context, actor domain.Actor, req dto.CreateDrawerTransferRequest) (*domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrInvalidAmount)
	}
	if req.FromDrawerID == req.ToDrawerID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrSameDrawer)
	}

	source, err := s.validateSourceDrawer(ctx, actor, req.FromDrawerID, req.Amount)
	if err != nil {
		return nil, err
	}

	dest, err := s.drawerRepo.FindDrawerByID(ctx, req.ToDrawerID)
	if err != nil {
		return nil, err
	}
	if dest.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}
	if dest.Status != domain.DrawerOpen {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidState, ErrDestDrawerNotOpen)
	}

	now := time.Now().UTC()
	transfer := domain.TransferRequest{
		RequestID:       uuid.NewString(),
		TenantID:        actor.TenantID,
		Kind:            domain.TransferDrawer,
		Amount:          req.Amount,
		Status:          domain.TransferPending,
		FromActorID:     source.OwnerID,
		ToActorID:       dest.OwnerID,
		FromDrawerID:    source.DrawerID,
		ToDrawerID:      dest.DrawerID,
		Reason:          req.Reason,
		ReferenceNumber: newReferenceNumber(now),
		CreatedAt:       now,
		CreatedBy:       actor.ActorID,
	}

	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		logger.Error("Failed to save drawer transfer request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transfer request: %w", err)
	}

	logger.Info("Drawer transfer request created",
		slog.String("request_id", transfer.RequestID),
		slog.String("from_drawer", transfer.FromDrawerID),
		slog.String("to_drawer", transfer.ToDrawerID),
		slog.String("amount", transfer.Amount.String()),
	)
	return &transfer, nil
}

// CreateAccountTransfer proposes a drawer-to-external-account transfer. The
// destination account is an opaque reference; its existence and the settlement
// are an external system's responsibility.
func (s *transferService) CreateAccountTransfer(ctx context.Context, actor domain.Actor, req dto.CreateAccountTransferRequest) (*domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrInvalidAmount)
	}

	source, err := s.validateSourceDrawer(ctx, actor, req.FromDrawerID, req.Amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transfer := domain.TransferRequest{
		RequestID:       uuid.NewString(),
		TenantID:        actor.TenantID,
		Kind:            domain.TransferAccount,
		Amount:          req.Amount,
		Status:          domain.TransferPending,
		FromActorID:     source.OwnerID,
		FromDrawerID:    source.DrawerID,
		ToExternalAccID: req.ToExternalAccountID,
		Reason:          req.Reason,
		ReferenceNumber: newReferenceNumber(now),
		CreatedAt:       now,
		CreatedBy:       actor.ActorID,
	}

	if err := s.transferRepo.SaveTransfer(ctx, transfer); err != nil {
		logger.Error("Failed to save account transfer request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transfer request: %w", err)
	}

	logger.Info("Account transfer request created",
		slog.String("request_id", transfer.RequestID),
		slog.String("from_drawer", transfer.FromDrawerID),
		slog.String("to_account", transfer.ToExternalAccID),
		slog.String("amount", transfer.Amount.String()),
	)
	return &transfer, nil
}

// GetTransfer retrieves a transfer request within the actor's tenant.
func (s *transferService) GetTransfer(ctx context.Context, actor domain.Actor, requestID string) (*domain.TransferRequest, error) {
	transfer, err := s.transferRepo.FindTransferByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if transfer.TenantID != actor.TenantID {
		return nil, apperrors.ErrNotFound
	}
	return transfer, nil
}

// ListTransfers lists transfer requests in the actor's tenant ordered by
// createdAt descending. Read-only; never contends with the arbiter's write path.
func (s *transferService) ListTransfers(ctx context.Context, actor domain.Actor, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	filter := portsrepo.TransferFilter{
		Status:  params.Status,
		Kind:    params.Kind,
		ActorID: params.ActorID,
	}

	transfers, nextToken, err := s.transferRepo.ListTransfers(ctx, actor.TenantID, filter, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transfer requests", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transfer requests: %w", err)
	}

	resp := &dto.ListTransfersResponse{
		Transfers: dto.ToTransferResponses(transfers),
		NextToken: nextToken,
	}

	logger.Debug("Transfer requests listed", slog.Int("count", len(transfers)))
	return resp, nil
}
