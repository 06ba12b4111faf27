package dto

import (
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRewardRequest defines the data needed to create a reward.
type CreateRewardRequest struct {
	Title        string            `json:"title" binding:"required" validate:"required,max=120"`
	Description  string            `json:"description" binding:"required" validate:"required"`
	PointsCost   int64             `json:"pointsCost" binding:"required,gt=0" validate:"gt=0"`
	Type         domain.RewardType `json:"type" binding:"required" validate:"required,oneof=LISTING_PRIORITY CASHBACK DISCOUNT_VOUCHER OTHER"`
	Role         domain.RewardRole `json:"role" binding:"required" validate:"required,oneof=tenant landlord all"`
	DurationDays *int              `json:"durationDays" binding:"omitempty,gt=0" validate:"omitempty,gt=0"`
	CashValue    *decimal.Decimal  `json:"cashValue"`
}

// UpdateRewardRequest defines a partial reward update; only provided fields overwrite.
type UpdateRewardRequest struct {
	Title        *string            `json:"title" validate:"omitempty,min=1,max=120"`
	Description  *string            `json:"description"`
	PointsCost   *int64             `json:"pointsCost" validate:"omitempty,gt=0"`
	Type         *domain.RewardType `json:"type" validate:"omitempty,oneof=LISTING_PRIORITY CASHBACK DISCOUNT_VOUCHER OTHER"`
	Role         *domain.RewardRole `json:"role" validate:"omitempty,oneof=tenant landlord all"`
	DurationDays *int               `json:"durationDays" validate:"omitempty,gt=0"`
	CashValue    *decimal.Decimal   `json:"cashValue"`
	IsActive     *bool              `json:"isActive"`
}

// RedeemRequest is the body of POST /rewards/redeem.
type RedeemRequest struct {
	RewardID  string  `json:"rewardId" binding:"required"`
	ListingID *string `json:"listingId"`
}

// RewardResponse defines the data returned for a reward.
type RewardResponse struct {
	RewardID     string            `json:"rewardID"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PointsCost   int64             `json:"pointsCost"`
	Type         domain.RewardType `json:"type"`
	Role         domain.RewardRole `json:"role"`
	DurationDays *int              `json:"durationDays,omitempty"`
	CashValue    *decimal.Decimal  `json:"cashValue,omitempty"`
	IsActive     bool              `json:"isActive"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ListRewardsResponse wraps a list of rewards.
type ListRewardsResponse struct {
	Rewards []RewardResponse `json:"rewards"`
}

// ToRewardResponse converts a domain.Reward to RewardResponse DTO
func ToRewardResponse(r *domain.Reward) RewardResponse {
	return RewardResponse{
		RewardID:     r.RewardID,
		Title:        r.Title,
		Description:  r.Description,
		PointsCost:   r.PointsCost,
		Type:         r.Type,
		Role:         r.Role,
		DurationDays: r.DurationDays,
		CashValue:    r.CashValue,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}
}

// ToListRewardsResponse converts a slice of domain.Reward to ListRewardsResponse
func ToListRewardsResponse(rewards []domain.Reward) ListRewardsResponse {
	res := make([]RewardResponse, len(rewards))
	for i := range rewards {
		res[i] = ToRewardResponse(&rewards[i])
	}
	return ListRewardsResponse{Rewards: res}
}

// FulfilmentResponse describes a redemption settled outside the system.
type FulfilmentResponse struct {
	FulfilmentID string                  `json:"fulfilmentID"`
	RewardID     string                  `json:"rewardID"`
	RewardType   domain.RewardType       `json:"rewardType"`
	PointsSpent  int64                   `json:"pointsSpent"`
	CashValue    *decimal.Decimal        `json:"cashValue,omitempty"`
	VoucherCode  *string                 `json:"voucherCode,omitempty"`
	Status       domain.FulfilmentStatus `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// ListFulfilmentsResponse wraps a list of fulfilments.
type ListFulfilmentsResponse struct {
	Fulfilments []FulfilmentResponse `json:"fulfilments"`
}

// ToListFulfilmentsResponse converts fulfilment records to their DTOs.
func ToListFulfilmentsResponse(fs []domain.RewardFulfilment) ListFulfilmentsResponse {
	res := make([]FulfilmentResponse, len(fs))
	for i, f := range fs {
		res[i] = FulfilmentResponse{
			FulfilmentID: f.FulfilmentID,
			RewardID:     f.RewardID,
			RewardType:   f.RewardType,
			PointsSpent:  f.PointsSpent,
			CashValue:    f.CashValue,
			VoucherCode:  f.VoucherCode,
			Status:       f.Status,
			CreatedAt:    f.CreatedAt,
		}
	}
	return ListFulfilmentsResponse{Fulfilments: res}
}
