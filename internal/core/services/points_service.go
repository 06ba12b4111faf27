package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/platform/metrics"
	"github.com/google/uuid"
)

// pointsService is the only writer of account balances. Every balance change
// goes through ApplyTransactionTx together with its ledger entry.
type pointsService struct {
	BaseService
	uow         portsrepo.UnitOfWork
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// PointsServiceOption is a functional option for configuring the points service
type PointsServiceOption func(*pointsService)

// WithPointsClock overrides the time source used for ledger timestamps.
func WithPointsClock(now func() time.Time) PointsServiceOption {
	return func(s *pointsService) {
		s.Clock = now
	}
}

// NewPointsService creates a new points service.
func NewPointsService(uow portsrepo.UnitOfWork, accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, options ...PointsServiceOption) portssvc.PointsSvcFacade {
	svc := &pointsService{
		uow:         uow,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PointsSvcFacade = (*pointsService)(nil)

// resolveAmount returns the signed delta for txn under def.
func resolveAmount(def domain.ReasonDefinition, override *int64) (int64, error) {
	var amount int64
	switch {
	case override != nil:
		amount = *override
	case def.Points != nil:
		amount = *def.Points
	default:
		return 0, fmt.Errorf("%w: reason %s has no fixed amount and none was supplied", apperrors.ErrMissingAmount, def.Key)
	}
	if amount < 0 {
		amount = -amount
	}
	if amount == 0 {
		return 0, fmt.Errorf("%w: amount for reason %s is zero", apperrors.ErrMissingAmount, def.Key)
	}
	return amount * def.Direction.Sign(), nil
}

func (s *pointsService) ApplyTransaction(ctx context.Context, txn domain.PointsTransaction) (int64, error) {
	var (
		newBalance int64
		applied    bool
	)
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		newBalance, err = s.ApplyTransactionTx(ctx, tx, txn)
		applied = err == nil
		return err
	})
	if err != nil {
		if applied {
			// fn succeeded, so the commit itself failed.
			return 0, s.ledgerFailure(ctx, txn, err)
		}
		return 0, err
	}

	if def, ok := domain.LookupReason(txn.Reason); ok {
		metrics.PointsTransactions.WithLabelValues(string(def.Key), string(def.Direction)).Inc()
	}
	return newBalance, nil
}

func (s *pointsService) ApplyTransactionTx(ctx context.Context, tx portsrepo.TxRepositories, txn domain.PointsTransaction) (int64, error) {
	def, ok := domain.LookupReason(txn.Reason)
	if !ok {
		s.LogError(ctx, apperrors.ErrUnknownReason, "Rejected points transaction with unknown reason",
			slog.String("account_id", txn.AccountID),
			slog.String("reason", string(txn.Reason)))
		return 0, fmt.Errorf("%w: %s", apperrors.ErrUnknownReason, txn.Reason)
	}

	delta, err := resolveAmount(def, txn.OverrideAmount)
	if err != nil {
		s.LogWarn(ctx, "Rejected points transaction without amount",
			slog.String("account_id", txn.AccountID),
			slog.String("reason", string(txn.Reason)))
		return 0, err
	}

	now := s.Now()
	newBalance, err := tx.Accounts.IncrementPointsBalance(ctx, txn.AccountID, delta, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientPoints) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to increment points balance",
				slog.String("account_id", txn.AccountID),
				slog.Int64("delta", delta))
		}
		return 0, err
	}

	entry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		AccountID:      txn.AccountID,
		Points:         delta,
		Action:         def.Direction,
		Reason:         def.Key,
		Description:    def.Description,
		LinkedEntityID: txn.LinkedEntityID,
		CreatedAt:      now,
	}
	if err := tx.Ledger.AppendEntry(ctx, entry); err != nil {
		return 0, s.ledgerFailure(ctx, txn, err)
	}

	metrics.PointsMoved.WithLabelValues(string(def.Direction)).Add(float64(abs64(delta)))
	s.LogInfo(ctx, "Points transaction applied",
		slog.String("account_id", txn.AccountID),
		slog.String("reason", string(def.Key)),
		slog.Int64("delta", delta),
		slog.Int64("new_balance", newBalance),
		slog.String("entry_id", entry.EntryID))
	return newBalance, nil
}

// ledgerFailure raises the reconciliation alert for a balance change whose
// ledger entry could not be made durable.
func (s *pointsService) ledgerFailure(ctx context.Context, txn domain.PointsTransaction, cause error) error {
	metrics.LedgerWriteFailures.Inc()
	s.LogError(ctx, cause, "RECONCILIATION ALERT: points ledger write failed",
		slog.String("account_id", txn.AccountID),
		slog.String("reason", string(txn.Reason)))
	return fmt.Errorf("%w: %w", apperrors.ErrLedgerWriteFailure, cause)
}

func (s *pointsService) GetPointsSummary(ctx context.Context, accountID string, params dto.ListLedgerParams) (*dto.PointsSummaryResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account for points summary", slog.String("account_id", accountID))
		}
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("account_id", accountID))
		return nil, err
	}

	res := &dto.PointsSummaryResponse{
		PointsBalance: account.PointsBalance,
		Entries:       make([]dto.LedgerEntryResponse, len(entries)),
		NextToken:     nextToken,
	}
	for i, e := range entries {
		res.Entries[i] = dto.ToLedgerEntryResponse(e)
	}
	return res, nil
}

func (s *pointsService) Reconcile(ctx context.Context) ([]domain.BalanceDrift, error) {
	drifts, err := s.ledgerRepo.FindBalanceDrift(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute balance drift")
		return nil, err
	}
	metrics.BalanceDrifts.Set(float64(len(drifts)))
	for _, d := range drifts {
		s.LogError(ctx, apperrors.ErrLedgerWriteFailure, "Balance drift detected",
			slog.String("account_id", d.AccountID),
			slog.Int64("stored_balance", d.StoredBalance),
			slog.Int64("ledger_sum", d.LedgerSum))
	}
	if drifts == nil {
		drifts = []domain.BalanceDrift{}
	}
	return drifts, nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
