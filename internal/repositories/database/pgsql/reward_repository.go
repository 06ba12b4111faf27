package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxRewardRepository struct {
	db DBTX
}

func newPgxRewardRepository(pool *pgxpool.Pool) *PgxRewardRepository {
	return &PgxRewardRepository{db: pool}
}

var _ portsrepo.RewardRepositoryFacade = (*PgxRewardRepository)(nil)

const rewardColumns = `reward_id, title, description, points_cost, reward_type, role, duration_days, cash_value, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func toModelReward(d domain.Reward) models.Reward {
	var days *int32
	if d.DurationDays != nil {
		v := int32(*d.DurationDays)
		days = &v
	}
	return models.Reward{
		RewardID:     d.RewardID,
		Title:        d.Title,
		Description:  d.Description,
		PointsCost:   d.PointsCost,
		RewardType:   string(d.Type),
		Role:         string(d.Role),
		DurationDays: days,
		CashValue:    toNullDecimal(d.CashValue),
		IsActive:     d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainReward(m models.Reward) domain.Reward {
	var days *int
	if m.DurationDays != nil {
		v := int(*m.DurationDays)
		days = &v
	}
	return domain.Reward{
		RewardID:     m.RewardID,
		Title:        m.Title,
		Description:  m.Description,
		PointsCost:   m.PointsCost,
		Type:         domain.RewardType(m.RewardType),
		Role:         domain.RewardRole(m.Role),
		DurationDays: days,
		CashValue:    fromNullDecimal(m.CashValue),
		IsActive:     m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanReward(row pgx.Row) (domain.Reward, error) {
	var m models.Reward
	err := row.Scan(
		&m.RewardID,
		&m.Title,
		&m.Description,
		&m.PointsCost,
		&m.RewardType,
		&m.Role,
		&m.DurationDays,
		&m.CashValue,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Reward{}, err
	}
	return toDomainReward(m), nil
}

func (r *PgxRewardRepository) queryRewards(ctx context.Context, query string, args ...any) ([]domain.Reward, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer rows.Close()

	rewards := make([]domain.Reward, 0)
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rewards: %w", err)
	}
	return rewards, nil
}

func (r *PgxRewardRepository) FindRewardByID(ctx context.Context, rewardID string) (*domain.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE reward_id = $1;`
	rw, err := scanReward(r.db.QueryRow(ctx, query, rewardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reward %s: %w", rewardID, err)
	}
	return &rw, nil
}

func (r *PgxRewardRepository) ListActiveRewardsForRole(ctx context.Context, role domain.AccountRole) ([]domain.Reward, error) {
	query := `
		SELECT ` + rewardColumns + `
		FROM rewards
		WHERE is_active = TRUE AND role IN ($1, $2)
		ORDER BY points_cost ASC, title ASC;
	`
	return r.queryRewards(ctx, query, string(role), string(domain.RewardRoleAll))
}

func (r *PgxRewardRepository) ListAllRewards(ctx context.Context) ([]domain.Reward, error) {
	query := `SELECT ` + rewardColumns + ` FROM rewards ORDER BY points_cost ASC, title ASC;`
	return r.queryRewards(ctx, query)
}

func (r *PgxRewardRepository) SaveReward(ctx context.Context, reward domain.Reward) error {
	m := toModelReward(reward)
	query := `
		INSERT INTO rewards (` + rewardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		m.RewardID,
		m.Title,
		m.Description,
		m.PointsCost,
		m.RewardType,
		m.Role,
		m.DurationDays,
		m.CashValue,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: reward title %q", apperrors.ErrDuplicate, m.Title)
		}
		return fmt.Errorf("failed to save reward %s: %w", m.RewardID, err)
	}
	return nil
}

func (r *PgxRewardRepository) UpdateReward(ctx context.Context, reward domain.Reward) error {
	m := toModelReward(reward)
	query := `
		UPDATE rewards
		SET title = $2, description = $3, points_cost = $4, reward_type = $5, role = $6,
			duration_days = $7, cash_value = $8, is_active = $9, last_updated_at = $10, last_updated_by = $11
		WHERE reward_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.RewardID,
		m.Title,
		m.Description,
		m.PointsCost,
		m.RewardType,
		m.Role,
		m.DurationDays,
		m.CashValue,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: reward title %q", apperrors.ErrDuplicate, m.Title)
		}
		return fmt.Errorf("failed to update reward %s: %w", m.RewardID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateReward soft-deletes a reward. Ledger entries keep referring to it.
func (r *PgxRewardRepository) DeactivateReward(ctx context.Context, rewardID string, userID string, now time.Time) error {
	query := `
		UPDATE rewards
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE reward_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, rewardID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate reward %s: %w", rewardID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
