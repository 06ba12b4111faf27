package services

import (
	"context"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/SscSPs/propnest_backend/internal/dto"
)

// RewardCatalogSvc exposes the catalog to tenants and landlords.
type RewardCatalogSvc interface {
	// ListAvailableRewards returns active rewards for role (or "all"), cheapest first.
	ListAvailableRewards(ctx context.Context, role domain.AccountRole) ([]domain.Reward, error)
}

// RewardRedemptionSvc spends points on a reward.
type RewardRedemptionSvc interface {
	Redeem(ctx context.Context, accountID string, rewardID string, rc domain.RedeemContext) (*domain.RedeemResult, error)

	// ListFulfilments returns the account's cashback requests, vouchers and manual rewards.
	ListFulfilments(ctx context.Context, accountID string) ([]domain.RewardFulfilment, error)
}

// RewardAdminSvc defines administrative catalog management.
type RewardAdminSvc interface {
	CreateReward(ctx context.Context, req dto.CreateRewardRequest, adminID string) (*domain.Reward, error)
	UpdateReward(ctx context.Context, rewardID string, req dto.UpdateRewardRequest, adminID string) (*domain.Reward, error)
	DeactivateReward(ctx context.Context, rewardID string, adminID string) error
	GetReward(ctx context.Context, rewardID string) (*domain.Reward, error)
	ListAllRewards(ctx context.Context) ([]domain.Reward, error)
}

// RewardSvcFacade combines all reward-related service interfaces
type RewardSvcFacade interface {
	RewardCatalogSvc
	RewardRedemptionSvc
	RewardAdminSvc
}
