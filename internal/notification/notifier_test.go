package notification_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	"github.com/tillpoint/cashdesk_backend/internal/notification"
)

// syncBuffer makes bytes.Buffer safe for the notifier's worker goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSlogNotifier_DeliversEventsBeforeClose(t *testing.T) {
	out := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(out, nil))
	notifier := notification.NewSlogNotifier(logger)

	notifier.NotifyTransferResolved(context.Background(), domain.TransferResolvedEvent{
		RequestID:   "req-1",
		Kind:        domain.TransferDrawer,
		Status:      domain.TransferApproved,
		FromActorID: "user-alice",
		ToActorID:   "user-bob",
		Amount:      decimal.RequireFromString("25"),
		ResolvedBy:  "user-bob",
	})
	notifier.Close()

	logged := out.String()
	require.NotEmpty(t, logged)
	assert.True(t, strings.Contains(logged, "req-1"))
	assert.True(t, strings.Contains(logged, "APPROVED"))
	assert.True(t, strings.Contains(logged, "user-bob"))
}

func TestSlogNotifier_CloseIsIdempotent(t *testing.T) {
	notifier := notification.NewSlogNotifier(slog.New(slog.NewTextHandler(&syncBuffer{}, nil)))

	notifier.Close()
	notifier.Close()
}

func TestSlogNotifier_AbsorbsBursts(t *testing.T) {
	out := &syncBuffer{}
	notifier := notification.NewSlogNotifier(slog.New(slog.NewTextHandler(out, nil)))

	// Well past the internal buffer; excess events are dropped, never blocked on.
	for i := 0; i < 500; i++ {
		notifier.NotifyTransferResolved(context.Background(), domain.TransferResolvedEvent{
			RequestID: "req-flood",
			Amount:    decimal.Zero,
		})
	}
	notifier.Close()
}
