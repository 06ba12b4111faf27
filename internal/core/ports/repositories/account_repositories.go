package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its login email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// FindAccountByReferralCode retrieves the account owning a referral code.
	FindAccountByReferralCode(ctx context.Context, code string) (*domain.Account, error)
}

// AccountTxWriter defines account writes that run inside a unit of work.
type AccountTxWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountProfile updates the editable profile fields.
	UpdateAccountProfile(ctx context.Context, account domain.Account) error

	// MarkProfileCompleted stamps profile_completed_at if it is not set yet.
	// It reports whether this call was the one that set it.
	MarkProfileCompleted(ctx context.Context, accountID string, at time.Time) (bool, error)

	// IncrementPointsBalance atomically adds delta to the balance and returns the new value.
	// It fails with apperrors.ErrInsufficientPoints if the result would be negative.
	IncrementPointsBalance(ctx context.Context, accountID string, delta int64, at time.Time) (int64, error)
}

// AccountRepositoryFacade combines the account read operations used outside a unit of work.
type AccountRepositoryFacade interface {
	AccountReader
}
