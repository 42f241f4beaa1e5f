package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/core/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
	"github.com/tillpoint/cashdesk_backend/internal/repositories/memory"
)

const testTenant = "tenant-1"

// Actors reused across suites. Alice and Bob are cashiers in tenant-1, Mara is
// their manager, Eve is a manager in an unrelated tenant.
var (
	cashierAlice = domain.Actor{ActorID: "user-alice", TenantID: testTenant, Role: domain.RoleCashier}
	cashierBob   = domain.Actor{ActorID: "user-bob", TenantID: testTenant, Role: domain.RoleCashier}
	managerMara  = domain.Actor{ActorID: "user-mara", TenantID: testTenant, Role: domain.RoleManager}
	adminAda     = domain.Actor{ActorID: "user-ada", TenantID: testTenant, Role: domain.RoleAdmin}
	outsiderEve  = domain.Actor{ActorID: "user-eve", TenantID: "tenant-2", Role: domain.RoleManager}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// captureNotifier records resolution events for assertions.
type captureNotifier struct {
	mu     sync.Mutex
	events []domain.TransferResolvedEvent
}

var _ portssvc.ResolutionNotifier = (*captureNotifier)(nil)

func (n *captureNotifier) NotifyTransferResolved(_ context.Context, event domain.TransferResolvedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) captured() []domain.TransferResolvedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.TransferResolvedEvent{}, n.events...)
}

// fixture wires the services over the in-memory backing, which mirrors the
// pgsql transaction semantics, so these suites exercise the real arbitration
// paths rather than stubbed repositories.
type fixture struct {
	ctx       context.Context
	repos     portsrepo.RepositoryProvider
	notifier  *captureNotifier
	drawers   portssvc.DrawerSvcFacade
	transfers portssvc.TransferSvcFacade
	approvals portssvc.ApprovalSvcFacade
	queries   portssvc.LedgerQuerySvcFacade
	users     portssvc.UserSvcFacade
}

func newFixture() *fixture {
	repos := memory.NewRepositoryProvider()
	notifier := &captureNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		ctx:       middleware.WithLogger(context.Background(), logger),
		repos:     repos,
		notifier:  notifier,
		drawers:   services.NewDrawerService(repos.DrawerRepo),
		transfers: services.NewTransferService(repos.TransferRepo, repos.DrawerRepo),
		approvals: services.NewApprovalService(repos.TransferRepo, notifier),
		queries:   services.NewLedgerQueryService(repos.DrawerRepo, repos.TransferRepo),
		users:     services.NewUserService(repos.UserRepo),
	}
}

// mustOpenDrawer creates a drawer owned by the given actor and opens it with
// the given balance.
func (f *fixture) mustOpenDrawer(t *testing.T, owner domain.Actor, name, balance string) *domain.Drawer {
	t.Helper()
	created, err := f.drawers.CreateDrawer(f.ctx, owner, dto.CreateDrawerRequest{Name: name})
	require.NoError(t, err)
	opened, err := f.drawers.OpenDrawer(f.ctx, owner, created.DrawerID, dec(balance))
	require.NoError(t, err)
	return opened
}

// mustCreateDrawerTransfer proposes a drawer-to-drawer transfer and requires it
// to land in PENDING.
func (f *fixture) mustCreateDrawerTransfer(t *testing.T, actor domain.Actor, fromDrawerID, toDrawerID, amount string) *domain.TransferRequest {
	t.Helper()
	transfer, err := f.transfers.CreateDrawerTransfer(f.ctx, actor, dto.CreateDrawerTransferRequest{
		FromDrawerID: fromDrawerID,
		ToDrawerID:   toDrawerID,
		Amount:       dec(amount),
	})
	require.NoError(t, err)
	require.Equal(t, domain.TransferPending, transfer.Status)
	return transfer
}
