package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/platform/config"
	"github.com/SscSPs/propnest_backend/internal/utils"
)

// authService issues access tokens. It requires access to application
// configuration for the signing secret and expiry.
type authService struct {
	BaseService
	cfg         *config.Config
	accountRepo portsrepo.AccountReader
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, accountRepo portsrepo.AccountReader) portssvc.AuthSvc {
	return &authService{
		cfg:         cfg,
		accountRepo: accountRepo,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accountRepo.FindAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password so emails cannot be enumerated.
			return "", nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load account for login")
		return "", nil, err
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		s.LogWarn(ctx, "Login failed: bad password", slog.String("account_id", account.AccountID))
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.GenerateToken(account)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("account_id", account.AccountID))
		return "", nil, err
	}
	return token, account, nil
}

// GenerateToken creates a new JWT access token for the given account.
func (s *authService) GenerateToken(account *domain.Account) (string, error) {
	return utils.GenerateJWT(account.AccountID, string(account.Role), account.IsAdmin, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
}
