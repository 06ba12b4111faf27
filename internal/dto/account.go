package dto

import (
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// RegisterRequest defines the data needed to create a new account.
type RegisterRequest struct {
	Email        string             `json:"email" binding:"required,email"`
	Password     string             `json:"password" binding:"required,min=8"`
	Name         string             `json:"name" binding:"required"`
	Role         domain.AccountRole `json:"role" binding:"required,oneof=tenant landlord"`
	ReferralCode *string            `json:"referralCode"` // Optional, code of the referring account
}

// UpdateProfileRequest defines the profile fields an account may change.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Bio   *string `json:"bio"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	Role               domain.AccountRole `json:"role"`
	IsAdmin            bool               `json:"isAdmin"`
	Phone              string             `json:"phone"`
	Bio                string             `json:"bio"`
	ReferralCode       string             `json:"referralCode"`
	PointsBalance      int64              `json:"pointsBalance"`
	ProfileCompletedAt *time.Time         `json:"profileCompletedAt,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          acc.AccountID,
		Email:              acc.Email,
		Name:               acc.Name,
		Role:               acc.Role,
		IsAdmin:            acc.IsAdmin,
		Phone:              acc.Phone,
		Bio:                acc.Bio,
		ReferralCode:       acc.ReferralCode,
		PointsBalance:      acc.PointsBalance,
		ProfileCompletedAt: acc.ProfileCompletedAt,
		CreatedAt:          acc.CreatedAt,
	}
}
