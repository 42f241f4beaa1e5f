package services

import (
	"context"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// ResolutionNotifier receives TransferResolved events after the arbiter commits
// a terminal state. Implementations must not block the caller; delivery is
// fire-and-forget and the core does not depend on it.
type ResolutionNotifier interface {
	NotifyTransferResolved(ctx context.Context, event domain.TransferResolvedEvent)
}
