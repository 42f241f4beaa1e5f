package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/tillpoint/cashdesk_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	drawerRepo := newPgxDrawerRepository(dbPool)
	transferRepo := newPgxTransferRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DrawerRepo:   drawerRepo,
		TransferRepo: transferRepo,
		UserRepo:     userRepo,
	}
}
