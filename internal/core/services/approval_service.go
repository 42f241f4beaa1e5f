package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tillpoint/cashdesk_backend/internal/apperrors"
	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
)

// approvalService arbitrates the PENDING -> APPROVED/REJECTED transition of
// transfer requests. The transition is resolved exactly once: the repository
// claims the PENDING row with a conditional update, so of two racing callers
// one wins and the other observes ErrAlreadyResolved.
type approvalService struct {
	transferRepo portsrepo.TransferRepositoryFacade
	notifier     portssvc.ResolutionNotifier
}

// NewApprovalService creates a new ApprovalService. notifier may be nil.
func NewApprovalService(transferRepo portsrepo.TransferRepositoryFacade, notifier portssvc.ResolutionNotifier) portssvc.ApprovalSvcFacade {
	return &approvalService{
		transferRepo: transferRepo,
		notifier:     notifier,
	}
}

// Ensure approvalService implements the portssvc.ApprovalSvcFacade interface
var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// Resolve transitions a PENDING transfer request to a terminal state.
//
// Authorization runs before any mutation: the actor must satisfy
// domain.TransferRequest.CanBeResolvedBy, the same predicate the pending-
// approvals listing uses. Approval of a DRAWER transfer re-checks the source
// balance inside the storage transaction; a shortfall resolves the request to
// REJECTED — the request is consumed, which is a business outcome rather than
// a caller error. ACCOUNT approvals update the envelope only, since settlement
// happens externally.
func (s *approvalService) Resolve(ctx context.Context, actor domain.Actor, requestID string, req dto.ResolveTransferRequest) (*domain.TransferRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	transfer, err := s.transferRepo.FindTransferByID(ctx, requestID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch transfer request for resolution", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, err
	}
	if transfer.TenantID != actor.TenantID {
		// Obscure existence across tenants.
		return nil, apperrors.ErrNotFound
	}

	if !transfer.CanBeResolvedBy(actor) {
		logger.Warn("Unauthorized resolution attempt",
			slog.String("request_id", requestID),
			slog.String("actor_id", actor.ActorID),
			slog.String("role", string(actor.Role)),
		)
		return nil, fmt.Errorf("%w: actor is neither the recipient nor holds an elevated role", apperrors.ErrForbidden)
	}

	// Early terminal check. The conditional update below is what actually
	// guarantees exactly-once; this only short-circuits the common retry.
	if transfer.Status.IsTerminal() {
		return nil, apperrors.ErrAlreadyResolved
	}

	now := time.Now().UTC()
	var resolved *domain.TransferRequest

	switch req.Decision {
	case domain.DecisionReject:
		resolved, err = s.transferRepo.ResolveEnvelope(ctx, requestID, domain.TransferRejected, actor.ActorID, req.Notes, now)
	case domain.DecisionApprove:
		switch transfer.Kind {
		case domain.TransferDrawer:
			resolved, err = s.transferRepo.ApproveDrawerTransfer(ctx, requestID, actor.ActorID, req.Notes, now)
		case domain.TransferAccount:
			resolved, err = s.transferRepo.ResolveEnvelope(ctx, requestID, domain.TransferApproved, actor.ActorID, req.Notes, now)
		default:
			return nil, fmt.Errorf("%w: unknown transfer kind %q", apperrors.ErrInternal, transfer.Kind)
		}
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidation, req.Decision)
	}

	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAlreadyResolved):
			logger.Info("Lost resolution race", slog.String("request_id", requestID))
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Storage conflict during resolution, caller may retry", slog.String("request_id", requestID))
		default:
			logger.Error("Failed to resolve transfer request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, err
	}

	logger.Info("Transfer request resolved",
		slog.String("request_id", requestID),
		slog.String("status", string(resolved.Status)),
		slog.String("resolved_by", actor.ActorID),
	)

	if s.notifier != nil {
		s.notifier.NotifyTransferResolved(ctx, domain.TransferResolvedEvent{
			RequestID:   resolved.RequestID,
			Kind:        resolved.Kind,
			Status:      resolved.Status,
			FromActorID: resolved.FromActorID,
			ToActorID:   resolved.ToActorID,
			Amount:      resolved.Amount,
			ResolvedBy:  actor.ActorID,
			ResolvedAt:  now,
		})
	}

	return resolved, nil
}
