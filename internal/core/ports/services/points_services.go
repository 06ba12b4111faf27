package services

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/dto"
)

// PointsProcessorSvc applies balance changes together with their ledger entry.
type PointsProcessorSvc interface {
	// ApplyTransaction runs the balance change and ledger append in its own unit of work
	// and returns the balance after the change.
	ApplyTransaction(ctx context.Context, txn domain.PointsTransaction) (int64, error)

	// ApplyTransactionTx is ApplyTransaction for callers already inside a unit of work.
	ApplyTransactionTx(ctx context.Context, tx portsrepo.TxRepositories, txn domain.PointsTransaction) (int64, error)
}

// PointsReaderSvc exposes balances and history.
type PointsReaderSvc interface {
	GetPointsSummary(ctx context.Context, accountID string, params dto.ListLedgerParams) (*dto.PointsSummaryResponse, error)

	// Reconcile returns every account whose balance differs from the sum of its ledger entries.
	Reconcile(ctx context.Context) ([]domain.BalanceDrift, error)
}

// PointsSvcFacade combines all points-related service interfaces
type PointsSvcFacade interface {
	PointsProcessorSvc
	PointsReaderSvc
}
