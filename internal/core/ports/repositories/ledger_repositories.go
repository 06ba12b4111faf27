package repositories

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// LedgerReader defines read operations over the points ledger.
type LedgerReader interface {
	// ListEntriesByAccount returns ledger entries newest first using token-based pagination.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindBalanceDrift returns accounts whose stored balance differs from the sum of their entries.
	FindBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, error)
}

// LedgerWriter appends entries. The ledger is append-only; there is no update or delete.
type LedgerWriter interface {
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines the ledger read operations used outside a unit of work.
type LedgerRepositoryFacade interface {
	LedgerReader
}
