package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	uow         portsrepo.UnitOfWork
	points      portssvc.PointsProcessorSvc
	notifier    portssvc.Notifier
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountNotifier sets the notifier used for referral credits.
func WithAccountNotifier(n portssvc.Notifier) AccountServiceOption {
	return func(s *accountService) {
		s.notifier = n
	}
}

// WithAccountClock overrides the time source.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountReader, uow portsrepo.UnitOfWork, points portssvc.PointsProcessorSvc, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		uow:         uow,
		points:      points,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		// Note: Don't log if error is ErrNotFound, as it's an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: role must be tenant or landlord", apperrors.ErrValidation)
	}

	if _, err := s.accountRepo.FindAccountByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for existing account", slog.String("email", email))
		return nil, err
	}

	var referrer *domain.Account
	if req.ReferralCode != nil && strings.TrimSpace(*req.ReferralCode) != "" {
		code := strings.ToUpper(strings.TrimSpace(*req.ReferralCode))
		found, err := s.accountRepo.FindAccountByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.ErrInvalidReferralCode
			}
			s.LogError(ctx, err, "Failed to resolve referral code")
			return nil, err
		}
		referrer = found
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	referralCode, err := utils.GenerateCode("PN", 2, 4)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	accountID := uuid.NewString()
	account := domain.Account{
		AccountID:    accountID,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
		ReferralCode: referralCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     accountID,
			LastUpdatedAt: now,
			LastUpdatedBy: accountID,
		},
	}
	if referrer != nil {
		account.ReferredBy = &referrer.AccountID
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Accounts.SaveAccount(ctx, account); err != nil {
			return err
		}
		if referrer == nil {
			return nil
		}
		_, err := s.points.ApplyTransactionTx(ctx, tx, domain.PointsTransaction{
			AccountID:      referrer.AccountID,
			Reason:         domain.ReasonReferralSignup,
			LinkedEntityID: &accountID,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to register account", slog.String("email", email))
		}
		return nil, err
	}

	if referrer != nil && s.notifier != nil {
		s.notifier.Notify(ctx, referrer.AccountID, "referral_signup_credited", map[string]any{
			"referred_account_id": accountID,
		})
	}
	s.LogInfo(ctx, "Account registered", slog.String("account_id", accountID), slog.String("role", string(account.Role)))
	return &account, nil
}

func (s *accountService) UpdateProfile(ctx context.Context, accountID string, req dto.UpdateProfileRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		account.Name = name
	}
	if req.Phone != nil {
		account.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Bio != nil {
		account.Bio = strings.TrimSpace(*req.Bio)
	}
	now := s.Now()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = accountID

	credited := false
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Accounts.UpdateAccountProfile(ctx, *account); err != nil {
			return err
		}
		if !account.IsProfileComplete() {
			return nil
		}
		// The completion bonus is paid at most once per account.
		first, err := tx.Accounts.MarkProfileCompleted(ctx, accountID, now)
		if err != nil || !first {
			return err
		}
		_, err = s.points.ApplyTransactionTx(ctx, tx, domain.PointsTransaction{
			AccountID:      accountID,
			Reason:         domain.ReasonCompleteProfile,
			LinkedEntityID: &accountID,
		})
		credited = err == nil
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update profile", slog.String("account_id", accountID))
		return nil, err
	}

	if credited {
		s.LogInfo(ctx, "Profile completion points credited", slog.String("account_id", accountID))
	}
	return s.GetAccountByID(ctx, accountID)
}
