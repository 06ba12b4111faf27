package dto

import (
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// ListLedgerParams defines query parameters for the points history.
type ListLedgerParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// LedgerEntryResponse defines a single points history line.
type LedgerEntryResponse struct {
	EntryID        string           `json:"entryID"`
	Points         int64            `json:"points"`
	Action         domain.Direction `json:"action"`
	Reason         domain.ReasonKey `json:"reason"`
	Description    string           `json:"description"`
	LinkedEntityID *string          `json:"linkedEntityID,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// PointsSummaryResponse is the balance together with a page of history.
type PointsSummaryResponse struct {
	PointsBalance int64                 `json:"pointsBalance"`
	Entries       []LedgerEntryResponse `json:"entries"`
	NextToken     *string               `json:"nextToken,omitempty"`
}

// GrantPointsRequest lets an administrator apply a catalog reason to an account.
type GrantPointsRequest struct {
	AccountID      string  `json:"accountId" binding:"required"`
	ReasonKey      string  `json:"reasonKey" binding:"required"`
	Amount         *int64  `json:"amount" binding:"omitempty,gt=0"`
	LinkedEntityID *string `json:"linkedEntityId"`
}

// GrantPointsResponse returns the balance after an administrative grant.
type GrantPointsResponse struct {
	Message        string `json:"message"`
	NewPointsTotal int64  `json:"newPointsTotal"`
}

// ReconcileResponse lists accounts whose balance disagrees with the ledger.
type ReconcileResponse struct {
	Drifts []domain.BalanceDrift `json:"drifts"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:        e.EntryID,
		Points:         e.Points,
		Action:         e.Action,
		Reason:         e.Reason,
		Description:    e.Description,
		LinkedEntityID: e.LinkedEntityID,
		CreatedAt:      e.CreatedAt,
	}
}
