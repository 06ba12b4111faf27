package domain

import "github.com/shopspring/decimal"

// RewardType selects the effect applied when a reward is redeemed.
type RewardType string

const (
	RewardListingPriority RewardType = "LISTING_PRIORITY"
	RewardCashback        RewardType = "CASHBACK"
	RewardDiscountVoucher RewardType = "DISCOUNT_VOUCHER"
	RewardOther           RewardType = "OTHER"
)

// RewardTypes lists every reward type. Each needs an effect handler and a redeem reason.
var RewardTypes = []RewardType{
	RewardListingPriority,
	RewardCashback,
	RewardDiscountVoucher,
	RewardOther,
}

// RewardRole restricts which account roles can see and redeem a reward.
type RewardRole string

const (
	RewardRoleTenant   RewardRole = "tenant"
	RewardRoleLandlord RewardRole = "landlord"
	RewardRoleAll      RewardRole = "all"
)

// Reward is an item in the points catalog.
type Reward struct {
	RewardID     string           `json:"rewardID"`
	Title        string           `json:"title"` // Globally unique
	Description  string           `json:"description"`
	PointsCost   int64            `json:"pointsCost"`
	Type         RewardType       `json:"type"`
	Role         RewardRole       `json:"role"`
	DurationDays *int             `json:"durationDays,omitempty"`
	CashValue    *decimal.Decimal `json:"cashValue,omitempty"`
	IsActive     bool             `json:"isActive"` // Soft delete flag
	AuditFields
}

// AvailableTo reports whether an account with the given role may see and redeem the reward.
func (r *Reward) AvailableTo(role AccountRole) bool {
	return r.Role == RewardRoleAll || string(r.Role) == string(role)
}

// RedeemContext carries the caller-supplied targets of a redemption.
type RedeemContext struct {
	ListingID *string
}

// RedeemResult is returned after a successful redemption.
// ReferenceID is the entity linked to the ledger entry (listing id or tracking id).
type RedeemResult struct {
	Message        string `json:"message"`
	NewPointsTotal int64  `json:"newPointsTotal"`
	ReferenceID    string `json:"referenceId"`
}
