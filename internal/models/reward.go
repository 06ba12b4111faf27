package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reward is the rewards table row.
type Reward struct {
	RewardID     string              `db:"reward_id"`
	Title        string              `db:"title"` // UNIQUE
	Description  string              `db:"description"`
	PointsCost   int64               `db:"points_cost"`
	RewardType   string              `db:"reward_type"`
	Role         string              `db:"role"`
	DurationDays *int32              `db:"duration_days"`
	CashValue    decimal.NullDecimal `db:"cash_value"`
	IsActive     bool                `db:"is_active"`
	AuditFields
}

// RewardFulfilment is the reward_fulfilments table row.
type RewardFulfilment struct {
	FulfilmentID string              `db:"fulfilment_id"`
	AccountID    string              `db:"account_id"`
	RewardID     string              `db:"reward_id"`
	RewardType   string              `db:"reward_type"`
	PointsSpent  int64               `db:"points_spent"`
	CashValue    decimal.NullDecimal `db:"cash_value"`
	VoucherCode  *string             `db:"voucher_code"`
	Status       string              `db:"status"`
	CreatedAt    time.Time           `db:"created_at"`
}
