package pgsql

import (
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		RewardRepo:     newPgxRewardRepository(dbPool),
		ListingRepo:    newPgxListingRepository(dbPool),
		ReviewRepo:     newPgxReviewRepository(dbPool),
		FulfilmentRepo: newPgxFulfilmentRepository(dbPool),
		UnitOfWork:     newPgxUnitOfWork(dbPool),
	}
}
