package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFulfilmentRepository stores reward payouts that are settled outside the system.
type PgxFulfilmentRepository struct {
	db DBTX
}

func newPgxFulfilmentRepository(pool *pgxpool.Pool) *PgxFulfilmentRepository {
	return &PgxFulfilmentRepository{db: pool}
}

var (
	_ portsrepo.FulfilmentReader = (*PgxFulfilmentRepository)(nil)
	_ portsrepo.FulfilmentWriter = (*PgxFulfilmentRepository)(nil)
)

func (r *PgxFulfilmentRepository) SaveFulfilment(ctx context.Context, f domain.RewardFulfilment) error {
	query := `
		INSERT INTO reward_fulfilments (fulfilment_id, account_id, reward_id, reward_type, points_spent, cash_value, voucher_code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.db.Exec(ctx, query,
		f.FulfilmentID,
		f.AccountID,
		f.RewardID,
		string(f.RewardType),
		f.PointsSpent,
		toNullDecimal(f.CashValue),
		f.VoucherCode,
		string(f.Status),
		f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fulfilment %s: %w", f.FulfilmentID, err)
	}
	return nil
}

func (r *PgxFulfilmentRepository) ListFulfilmentsByAccount(ctx context.Context, accountID string) ([]domain.RewardFulfilment, error) {
	query := `
		SELECT fulfilment_id, account_id, reward_id, reward_type, points_spent, cash_value, voucher_code, status, created_at
		FROM reward_fulfilments
		WHERE account_id = $1
		ORDER BY created_at DESC, fulfilment_id DESC;
	`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fulfilments for %s: %w", accountID, err)
	}
	defer rows.Close()

	res := make([]domain.RewardFulfilment, 0)
	for rows.Next() {
		var m models.RewardFulfilment
		if err := rows.Scan(
			&m.FulfilmentID,
			&m.AccountID,
			&m.RewardID,
			&m.RewardType,
			&m.PointsSpent,
			&m.CashValue,
			&m.VoucherCode,
			&m.Status,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fulfilment: %w", err)
		}
		res = append(res, domain.RewardFulfilment{
			FulfilmentID: m.FulfilmentID,
			AccountID:    m.AccountID,
			RewardID:     m.RewardID,
			RewardType:   domain.RewardType(m.RewardType),
			PointsSpent:  m.PointsSpent,
			CashValue:    fromNullDecimal(m.CashValue),
			VoucherCode:  m.VoucherCode,
			Status:       domain.FulfilmentStatus(m.Status),
			CreatedAt:    m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fulfilments: %w", err)
	}
	return res, nil
}
