package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// RewardReader defines read operations for the reward catalog
type RewardReader interface {
	// FindRewardByID retrieves a reward regardless of its active flag.
	FindRewardByID(ctx context.Context, rewardID string) (*domain.Reward, error)

	// ListActiveRewardsForRole returns active rewards visible to role, cheapest first.
	ListActiveRewardsForRole(ctx context.Context, role domain.AccountRole) ([]domain.Reward, error)

	// ListAllRewards returns every reward including inactive ones.
	ListAllRewards(ctx context.Context) ([]domain.Reward, error)
}

// RewardWriter defines write operations for the reward catalog
type RewardWriter interface {
	// SaveReward persists a new reward. Duplicate titles fail with apperrors.ErrDuplicate.
	SaveReward(ctx context.Context, reward domain.Reward) error

	// UpdateReward overwrites the mutable fields of a reward.
	UpdateReward(ctx context.Context, reward domain.Reward) error

	// DeactivateReward flips is_active to false. Rewards are never hard-deleted.
	DeactivateReward(ctx context.Context, rewardID string, userID string, now time.Time) error
}

// RewardRepositoryFacade combines all reward-related repository interfaces
type RewardRepositoryFacade interface {
	RewardReader
	RewardWriter
}
