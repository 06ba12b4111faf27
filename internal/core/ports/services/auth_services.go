package services

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// AuthSvc issues access tokens for accounts.
type AuthSvc interface {
	// Login verifies the credentials and returns a signed token with the account.
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)

	// GenerateToken signs an access token carrying the account id, role and admin flag.
	GenerateToken(account *domain.Account) (string, error)
}
