package models

import "time"

// Account is the accounts table row.
type Account struct {
	AccountID          string     `db:"account_id"`
	Email              string     `db:"email"`
	Name               string     `db:"name"`
	PasswordHash       string     `db:"password_hash"`
	Role               string     `db:"role"`
	IsAdmin            bool       `db:"is_admin"`
	IsVerified         bool       `db:"is_verified"`
	Phone              string     `db:"phone"`
	Bio                string     `db:"bio"`
	ReferralCode       string     `db:"referral_code"`
	ReferredBy         *string    `db:"referred_by"` // Nullable
	ProfileCompletedAt *time.Time `db:"profile_completed_at"`
	PointsBalance      int64      `db:"points_balance"` // CHECK (points_balance >= 0)
	AuditFields
}
