package services

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/SscSPs/propnest_backend/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// Register creates a new account and credits the referrer when a valid referral code is given.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// UpdateProfile applies a partial profile update. Completing the profile for the
	// first time credits COMPLETE_PROFILE points.
	UpdateProfile(ctx context.Context, accountID string, req dto.UpdateProfileRequest) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
