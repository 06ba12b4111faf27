package domain

import "fmt"

// ReasonKey identifies an entry in the points reason catalog.
type ReasonKey string

const (
	ReasonReviewListing   ReasonKey = "REVIEW_LISTING"
	ReasonReferralSignup  ReasonKey = "REFERRAL_SIGNUP"
	ReasonCompleteProfile ReasonKey = "COMPLETE_PROFILE"
	ReasonAdminGrant      ReasonKey = "ADMIN_GRANT"
)

// ReasonDefinition describes how a reason key affects a balance.
// Points is nil for reasons whose amount is supplied per call.
type ReasonDefinition struct {
	Key         ReasonKey
	Points      *int64
	Description string
	Direction   Direction
}

func fixed(points int64) *int64 { return &points }

var reasonCatalog = map[ReasonKey]ReasonDefinition{
	ReasonReviewListing: {
		Key:         ReasonReviewListing,
		Points:      fixed(10),
		Description: "Points earned for reviewing a listing",
		Direction:   DirectionEarn,
	},
	ReasonReferralSignup: {
		Key:         ReasonReferralSignup,
		Points:      fixed(50),
		Description: "Points earned for referring a new account",
		Direction:   DirectionEarn,
	},
	ReasonCompleteProfile: {
		Key:         ReasonCompleteProfile,
		Points:      fixed(20),
		Description: "Points earned for completing your profile",
		Direction:   DirectionEarn,
	},
	ReasonAdminGrant: {
		Key:         ReasonAdminGrant,
		Description: "Points granted by an administrator",
		Direction:   DirectionEarn,
	},
	RedeemReasonKey(RewardListingPriority): {
		Key:         RedeemReasonKey(RewardListingPriority),
		Description: "Points redeemed for a priority listing",
		Direction:   DirectionRedeem,
	},
	RedeemReasonKey(RewardCashback): {
		Key:         RedeemReasonKey(RewardCashback),
		Description: "Points redeemed for cashback",
		Direction:   DirectionRedeem,
	},
	RedeemReasonKey(RewardDiscountVoucher): {
		Key:         RedeemReasonKey(RewardDiscountVoucher),
		Description: "Points redeemed for a discount voucher",
		Direction:   DirectionRedeem,
	},
	RedeemReasonKey(RewardOther): {
		Key:         RedeemReasonKey(RewardOther),
		Description: "Points redeemed for a reward",
		Direction:   DirectionRedeem,
	},
}

// LookupReason resolves a reason key. The returned value is a copy.
func LookupReason(key ReasonKey) (ReasonDefinition, bool) {
	def, ok := reasonCatalog[key]
	if ok && def.Points != nil {
		def.Points = fixed(*def.Points)
	}
	return def, ok
}

// RedeemReasonKey returns the reason key used when redeeming a reward of type t.
func RedeemReasonKey(t RewardType) ReasonKey {
	return ReasonKey(fmt.Sprintf("REDEEM_%s", t))
}

// ReasonKeys lists every registered reason key.
func ReasonKeys() []ReasonKey {
	keys := make([]ReasonKey, 0, len(reasonCatalog))
	for k := range reasonCatalog {
		keys = append(keys, k)
	}
	return keys
}
