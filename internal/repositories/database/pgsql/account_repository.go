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
)

type PgxAccountRepository struct {
	db DBTX
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{db: pool}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)
	_ portsrepo.AccountTxWriter         = (*PgxAccountRepository)(nil)
)

const accountColumns = `account_id, email, name, password_hash, role, is_admin, is_verified, phone, bio,
	referral_code, referred_by, profile_completed_at, points_balance,
	created_at, created_by, last_updated_at, last_updated_by`

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		Email:              d.Email,
		Name:               d.Name,
		PasswordHash:       d.PasswordHash,
		Role:               string(d.Role),
		IsAdmin:            d.IsAdmin,
		IsVerified:         d.IsVerified,
		Phone:              d.Phone,
		Bio:                d.Bio,
		ReferralCode:       d.ReferralCode,
		ReferredBy:         d.ReferredBy,
		ProfileCompletedAt: d.ProfileCompletedAt,
		PointsBalance:      d.PointsBalance,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		Email:              m.Email,
		Name:               m.Name,
		PasswordHash:       m.PasswordHash,
		Role:               domain.AccountRole(m.Role),
		IsAdmin:            m.IsAdmin,
		IsVerified:         m.IsVerified,
		Phone:              m.Phone,
		Bio:                m.Bio,
		ReferralCode:       m.ReferralCode,
		ReferredBy:         m.ReferredBy,
		ProfileCompletedAt: m.ProfileCompletedAt,
		PointsBalance:      m.PointsBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Email,
		&m.Name,
		&m.PasswordHash,
		&m.Role,
		&m.IsAdmin,
		&m.IsVerified,
		&m.Phone,
		&m.Bio,
		&m.ReferralCode,
		&m.ReferredBy,
		&m.ProfileCompletedAt,
		&m.PointsBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, where string, arg any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where + `;`
	acc, err := scanAccount(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "account_id = $1", accountID)
}

func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *PgxAccountRepository) FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, "referral_code = $1", code)
}

// SaveAccount inserts a new account. Email and referral code are unique.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.db.Exec(ctx, query,
		m.AccountID,
		m.Email,
		m.Name,
		m.PasswordHash,
		m.Role,
		m.IsAdmin,
		m.IsVerified,
		m.Phone,
		m.Bio,
		m.ReferralCode,
		m.ReferredBy,
		m.ProfileCompletedAt,
		m.PointsBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: account with email %s already exists", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccountProfile(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, phone = $3, bio = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Phone,
		account.Bio,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account profile %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxAccountRepository) MarkProfileCompleted(ctx context.Context, accountID string, at time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET profile_completed_at = $2
		WHERE account_id = $1 AND profile_completed_at IS NULL;
	`
	tag, err := r.db.Exec(ctx, query, accountID, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark profile completed for %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if _, err := r.FindAccountByID(ctx, accountID); err != nil {
		return false, err
	}
	return false, nil
}

// IncrementPointsBalance applies delta in a single conditional UPDATE, so
// concurrent debits can never take the balance below zero.
func (r *PgxAccountRepository) IncrementPointsBalance(ctx context.Context, accountID string, delta int64, at time.Time) (int64, error) {
	query := `
		UPDATE accounts
		SET points_balance = points_balance + $2, last_updated_at = $3
		WHERE account_id = $1 AND points_balance + $2 >= 0
		RETURNING points_balance;
	`
	var newBalance int64
	err := r.db.QueryRow(ctx, query, accountID, delta, at).Scan(&newBalance)
	if err == nil {
		return newBalance, nil
	}
	if pgErrCode(err) == pgCheckViolation {
		return 0, apperrors.ErrInsufficientPoints
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to increment points balance for %s: %w", accountID, err)
	}

	// No row matched: either the account is missing or the guard rejected the debit.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_id = $1);`, accountID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check account %s: %w", accountID, err)
	}
	if !exists {
		return 0, apperrors.ErrNotFound
	}
	return 0, apperrors.ErrInsufficientPoints
}
