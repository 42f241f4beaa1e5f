package services

import (
	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.ResolutionNotifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Drawer = NewDrawerService(repos.DrawerRepo)
	container.Transfer = NewTransferService(repos.TransferRepo, repos.DrawerRepo)
	container.Approval = NewApprovalService(repos.TransferRepo, notifier)
	container.LedgerQuery = NewLedgerQueryService(repos.DrawerRepo, repos.TransferRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}

// Compile-time interface checks for all service implementations.
var (
	_ portssvc.DrawerSvcFacade      = (*drawerService)(nil)
	_ portssvc.TransferSvcFacade    = (*transferService)(nil)
	_ portssvc.ApprovalSvcFacade    = (*approvalService)(nil)
	_ portssvc.LedgerQuerySvcFacade = (*ledgerQueryService)(nil)
	_ portssvc.UserSvcFacade        = (*userService)(nil)
	_ portssvc.TokenSvcFacade       = (*tokenService)(nil)
)
