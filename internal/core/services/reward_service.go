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
	"github.com/SscSPs/propnest_backend/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// rewardService implements the RewardSvcFacade interface
type rewardService struct {
	BaseService
	rewardRepo     portsrepo.RewardRepositoryFacade
	accountRepo    portsrepo.AccountReader
	fulfilmentRepo portsrepo.FulfilmentReader
	uow            portsrepo.UnitOfWork
	points         portssvc.PointsProcessorSvc
	notifier       portssvc.Notifier
	effects        map[domain.RewardType]rewardEffect
	validate       *validator.Validate
}

// RewardServiceOption is a functional option for configuring the reward service
type RewardServiceOption func(*rewardService)

// WithRewardNotifier sets the notifier invoked after a successful redemption.
func WithRewardNotifier(n portssvc.Notifier) RewardServiceOption {
	return func(s *rewardService) {
		s.notifier = n
	}
}

// WithRewardClock overrides the time source used for priority expiry and audit fields.
func WithRewardClock(now func() time.Time) RewardServiceOption {
	return func(s *rewardService) {
		s.Clock = now
	}
}

// withRewardEffects replaces the effect handler table.
func withRewardEffects(effects map[domain.RewardType]rewardEffect) RewardServiceOption {
	return func(s *rewardService) {
		s.effects = effects
	}
}

// NewRewardService creates the reward service. It fails if any reward type
// lacks an effect handler or a redeem reason.
func NewRewardService(
	rewardRepo portsrepo.RewardRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	fulfilmentRepo portsrepo.FulfilmentReader,
	uow portsrepo.UnitOfWork,
	points portssvc.PointsProcessorSvc,
	options ...RewardServiceOption,
) (portssvc.RewardSvcFacade, error) {
	svc := &rewardService{
		rewardRepo:     rewardRepo,
		accountRepo:    accountRepo,
		fulfilmentRepo: fulfilmentRepo,
		uow:            uow,
		points:         points,
		effects:        defaultRewardEffects(),
		validate:       validator.New(),
	}
	for _, option := range options {
		option(svc)
	}
	if err := validateRewardEffects(svc.effects); err != nil {
		return nil, err
	}
	return svc, nil
}

var _ portssvc.RewardSvcFacade = (*rewardService)(nil)

func (s *rewardService) ListAvailableRewards(ctx context.Context, role domain.AccountRole) ([]domain.Reward, error) {
	rewards, err := s.rewardRepo.ListActiveRewardsForRole(ctx, role)
	if err != nil {
		s.LogError(ctx, err, "Failed to list available rewards", slog.String("role", string(role)))
		return nil, err
	}
	if rewards == nil {
		return []domain.Reward{}, nil
	}
	return rewards, nil
}

// ListFulfilments returns the caller's out-of-band payouts and vouchers, newest first.
func (s *rewardService) ListFulfilments(ctx context.Context, accountID string) ([]domain.RewardFulfilment, error) {
	res, err := s.fulfilmentRepo.ListFulfilmentsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list fulfilments", slog.String("account_id", accountID))
		return nil, err
	}
	return res, nil
}

func (s *rewardService) Redeem(ctx context.Context, accountID string, rewardID string, rc domain.RedeemContext) (*domain.RedeemResult, error) {
	res, rewardType, err := s.redeem(ctx, accountID, rewardID, rc)
	metrics.Redemptions.WithLabelValues(rewardType, redemptionOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, accountID, "reward_redeemed", map[string]any{
			"reward_id":        rewardID,
			"reward_type":      rewardType,
			"reference_id":     res.ReferenceID,
			"new_points_total": res.NewPointsTotal,
		})
	}
	return res, nil
}

func (s *rewardService) redeem(ctx context.Context, accountID string, rewardID string, rc domain.RedeemContext) (*domain.RedeemResult, string, error) {
	logAttrs := []any{slog.String("account_id", accountID), slog.String("reward_id", rewardID)}

	reward, err := s.rewardRepo.FindRewardByID(ctx, rewardID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "unknown", apperrors.ErrRewardNotFound
		}
		s.LogError(ctx, err, "Failed to load reward for redemption", logAttrs...)
		return nil, "unknown", err
	}
	rewardType := string(reward.Type)
	if !reward.IsActive {
		return nil, rewardType, apperrors.ErrRewardNotFound
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account for redemption", logAttrs...)
		}
		return nil, rewardType, err
	}
	if !reward.AvailableTo(account.Role) {
		s.LogWarn(ctx, "Redemption rejected: role mismatch", append(logAttrs, slog.String("role", string(account.Role)))...)
		return nil, rewardType, apperrors.ErrRoleMismatch
	}
	if account.PointsBalance < reward.PointsCost {
		return nil, rewardType, fmt.Errorf("%w: balance %d, cost %d", apperrors.ErrInsufficientPoints, account.PointsBalance, reward.PointsCost)
	}

	reasonKey := domain.RedeemReasonKey(reward.Type)
	if _, ok := domain.LookupReason(reasonKey); !ok {
		s.LogError(ctx, apperrors.ErrUnsupportedRewardType, "No redeem reason for reward type", append(logAttrs, slog.String("type", rewardType))...)
		return nil, rewardType, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedRewardType, reward.Type)
	}
	effect, ok := s.effects[reward.Type]
	if !ok {
		s.LogError(ctx, apperrors.ErrUnsupportedRewardType, "No effect handler for reward type", append(logAttrs, slog.String("type", rewardType))...)
		return nil, rewardType, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedRewardType, reward.Type)
	}

	var (
		outcome    effectOutcome
		newBalance int64
		applied    bool
	)
	cost := reward.PointsCost
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		var err error
		outcome, err = effect(ctx, tx, effectRequest{
			Account: *account,
			Reward:  *reward,
			Context: rc,
			Now:     s.Now(),
		})
		if err != nil {
			return err
		}

		linked := outcome.LinkedEntityID
		newBalance, err = s.points.ApplyTransactionTx(ctx, tx, domain.PointsTransaction{
			AccountID:      accountID,
			Reason:         reasonKey,
			LinkedEntityID: &linked,
			OverrideAmount: &cost,
		})
		applied = err == nil
		return err
	})
	if err != nil {
		if applied {
			metrics.LedgerWriteFailures.Inc()
			s.LogError(ctx, err, "RECONCILIATION ALERT: redemption commit failed", logAttrs...)
			return nil, rewardType, fmt.Errorf("%w: %w", apperrors.ErrLedgerWriteFailure, err)
		}
		if !isRedemptionRejection(err) {
			s.LogError(ctx, err, "Redemption failed", logAttrs...)
		}
		return nil, rewardType, err
	}

	s.LogInfo(ctx, "Reward redeemed", append(logAttrs,
		slog.String("type", rewardType),
		slog.String("reference_id", outcome.LinkedEntityID),
		slog.Int64("new_balance", newBalance))...)

	return &domain.RedeemResult{
		Message:        outcome.Message,
		NewPointsTotal: newBalance,
		ReferenceID:    outcome.LinkedEntityID,
	}, rewardType, nil
}

var redemptionRejections = []error{
	apperrors.ErrRewardNotFound,
	apperrors.ErrRoleMismatch,
	apperrors.ErrInsufficientPoints,
	apperrors.ErrUnsupportedRewardType,
	apperrors.ErrListingRequired,
	apperrors.ErrListingNotOwned,
	apperrors.ErrAlreadyPriority,
	apperrors.ErrNotFound,
}

func isRedemptionRejection(err error) bool {
	for _, target := range redemptionRejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func redemptionOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, apperrors.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, apperrors.ErrLedgerWriteFailure):
		return "ledger_failure"
	case isRedemptionRejection(err):
		return "rejected"
	default:
		return "error"
	}
}

func (s *rewardService) CreateReward(ctx context.Context, req dto.CreateRewardRequest, adminID string) (*domain.Reward, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if req.CashValue != nil && req.CashValue.IsNegative() {
		return nil, fmt.Errorf("%w: cashValue must not be negative", apperrors.ErrValidation)
	}

	now := s.Now()
	reward := domain.Reward{
		RewardID:     uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		PointsCost:   req.PointsCost,
		Type:         req.Type,
		Role:         req.Role,
		DurationDays: req.DurationDays,
		CashValue:    req.CashValue,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminID,
		},
	}

	if err := s.rewardRepo.SaveReward(ctx, reward); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save reward", slog.String("title", reward.Title))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Reward created", slog.String("reward_id", reward.RewardID), slog.String("admin_id", adminID))
	return &reward, nil
}

func (s *rewardService) UpdateReward(ctx context.Context, rewardID string, req dto.UpdateRewardRequest, adminID string) (*domain.Reward, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	reward, err := s.rewardRepo.FindRewardByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrValidation)
		}
		reward.Title = title
	}
	if req.Description != nil {
		reward.Description = *req.Description
	}
	if req.PointsCost != nil {
		reward.PointsCost = *req.PointsCost
	}
	if req.Type != nil {
		reward.Type = *req.Type
	}
	if req.Role != nil {
		reward.Role = *req.Role
	}
	if req.DurationDays != nil {
		reward.DurationDays = req.DurationDays
	}
	if req.CashValue != nil {
		if req.CashValue.IsNegative() {
			return nil, fmt.Errorf("%w: cashValue must not be negative", apperrors.ErrValidation)
		}
		reward.CashValue = req.CashValue
	}
	if req.IsActive != nil {
		reward.IsActive = *req.IsActive
	}
	reward.LastUpdatedAt = s.Now()
	reward.LastUpdatedBy = adminID

	if err := s.rewardRepo.UpdateReward(ctx, *reward); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update reward", slog.String("reward_id", rewardID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Reward updated", slog.String("reward_id", rewardID), slog.String("admin_id", adminID))
	return reward, nil
}

func (s *rewardService) DeactivateReward(ctx context.Context, rewardID string, adminID string) error {
	if err := s.rewardRepo.DeactivateReward(ctx, rewardID, adminID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate reward", slog.String("reward_id", rewardID))
		}
		return err
	}
	s.LogInfo(ctx, "Reward deactivated", slog.String("reward_id", rewardID), slog.String("admin_id", adminID))
	return nil
}

func (s *rewardService) GetReward(ctx context.Context, rewardID string) (*domain.Reward, error) {
	return s.rewardRepo.FindRewardByID(ctx, rewardID)
}

func (s *rewardService) ListAllRewards(ctx context.Context) ([]domain.Reward, error) {
	rewards, err := s.rewardRepo.ListAllRewards(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rewards")
		return nil, err
	}
	if rewards == nil {
		return []domain.Reward{}, nil
	}
	return rewards, nil
}
