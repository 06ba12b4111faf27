package domain

import "time"

// AccountRole is the marketplace role of an account.
type AccountRole string

const (
	RoleTenant   AccountRole = "tenant"
	RoleLandlord AccountRole = "landlord"
)

// IsValid reports whether r is a known account role.
func (r AccountRole) IsValid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// Account represents a marketplace user account within the core domain.
// PointsBalance is owned by the points ledger; no other code path writes it.
type Account struct {
	AccountID          string      `json:"accountID"` // Primary Key (UUID)
	Email              string      `json:"email"`
	Name               string      `json:"name"`
	PasswordHash       string      `json:"-"`
	Role               AccountRole `json:"role"`
	IsAdmin            bool        `json:"isAdmin"`
	IsVerified         bool        `json:"isVerified"`
	Phone              string      `json:"phone"`
	Bio                string      `json:"bio"`
	ReferralCode       string      `json:"referralCode"`
	ReferredBy         *string     `json:"referredBy,omitempty"`
	ProfileCompletedAt *time.Time  `json:"profileCompletedAt,omitempty"`
	PointsBalance      int64       `json:"pointsBalance"`
	AuditFields
}

// IsProfileComplete reports whether the optional profile fields are all filled in.
func (a *Account) IsProfileComplete() bool {
	return a.Name != "" && a.Phone != "" && a.Bio != ""
}
