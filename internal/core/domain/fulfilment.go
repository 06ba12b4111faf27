package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FulfilmentStatus tracks an out-of-band reward payout.
type FulfilmentStatus string

const (
	FulfilmentPending   FulfilmentStatus = "PENDING"
	FulfilmentCompleted FulfilmentStatus = "COMPLETED"
)

// RewardFulfilment records a redemption that is settled outside the system
// (manual cashback payout, issued voucher, other manual rewards).
// FulfilmentID doubles as the tracking id returned to the caller.
type RewardFulfilment struct {
	FulfilmentID string           `json:"fulfilmentID"`
	AccountID    string           `json:"accountID"`
	RewardID     string           `json:"rewardID"`
	RewardType   RewardType       `json:"rewardType"`
	PointsSpent  int64            `json:"pointsSpent"`
	CashValue    *decimal.Decimal `json:"cashValue,omitempty"`
	VoucherCode  *string          `json:"voucherCode,omitempty"`
	Status       FulfilmentStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
}
