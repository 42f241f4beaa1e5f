// Package notification delivers transfer resolution events to interested
// parties. The current implementation writes structured audit records via
// slog; the worker decouples delivery from the resolving request so a slow
// sink can never hold up the arbiter.
package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
)

const eventBufferSize = 64

// SlogNotifier fans transfer resolution events onto a buffered channel consumed
// by a single background worker. If the buffer is full the event is dropped
// with a warning; notification is best-effort and must never block resolution.
type SlogNotifier struct {
	logger *slog.Logger
	events chan domain.TransferResolvedEvent

	closeOnce sync.Once
	done      chan struct{}
}

// NewSlogNotifier creates the notifier and starts its delivery worker.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &SlogNotifier{
		logger: logger,
		events: make(chan domain.TransferResolvedEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// Ensure SlogNotifier implements the portssvc.ResolutionNotifier interface
var _ portssvc.ResolutionNotifier = (*SlogNotifier)(nil)

// NotifyTransferResolved enqueues an event for delivery. Never blocks.
func (n *SlogNotifier) NotifyTransferResolved(_ context.Context, event domain.TransferResolvedEvent) {
	select {
	case n.events <- event:
	default:
		n.logger.Warn("Notification buffer full, dropping event",
			slog.String("request_id", event.RequestID))
	}
}

// Close stops the delivery worker after draining queued events.
func (n *SlogNotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.events)
		<-n.done
	})
}

func (n *SlogNotifier) run() {
	defer close(n.done)
	for event := range n.events {
		n.logger.Info("Transfer request resolved",
			slog.String("request_id", event.RequestID),
			slog.String("kind", string(event.Kind)),
			slog.String("status", string(event.Status)),
			slog.String("from_actor_id", event.FromActorID),
			slog.String("to_actor_id", event.ToActorID),
			slog.String("amount", event.Amount.String()),
			slog.String("resolved_by", event.ResolvedBy),
			slog.Time("resolved_at", event.ResolvedAt),
		)
	}
}
