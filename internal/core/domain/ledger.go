package domain

import "time"

// Direction tags a ledger entry as a credit or a debit of points.
type Direction string

const (
	DirectionEarn   Direction = "earn"
	DirectionRedeem Direction = "redeem"
)

// Sign returns +1 for earn and -1 for redeem.
func (d Direction) Sign() int64 {
	if d == DirectionRedeem {
		return -1
	}
	return 1
}

// LedgerEntry is an immutable record of one points balance change.
type LedgerEntry struct {
	EntryID        string    `json:"entryID"`
	AccountID      string    `json:"accountID"`
	Points         int64     `json:"points"` // Signed delta
	Action         Direction `json:"action"`
	Reason         ReasonKey `json:"reason"`
	Description    string    `json:"description"` // Copied from the catalog at write time
	LinkedEntityID *string   `json:"linkedEntityID,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BalanceDrift reports an account whose stored balance disagrees with its ledger.
type BalanceDrift struct {
	AccountID     string `json:"accountID"`
	StoredBalance int64  `json:"storedBalance"`
	LedgerSum     int64  `json:"ledgerSum"`
}

// PointsTransaction is a request to change an account's balance for a catalog reason.
// OverrideAmount, when set, has its sign forced to the reason's direction.
type PointsTransaction struct {
	AccountID      string
	Reason         ReasonKey
	LinkedEntityID *string
	OverrideAmount *int64
}
