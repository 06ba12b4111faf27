package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/utils"
	"github.com/google/uuid"
)

// effectOutcome is what an effect handler reports back to the redemption flow.
type effectOutcome struct {
	// LinkedEntityID is stored on the ledger entry and returned as the reference id.
	LinkedEntityID string
	Message        string
}

// effectRequest bundles everything an effect handler may need.
type effectRequest struct {
	Account domain.Account
	Reward  domain.Reward
	Context domain.RedeemContext
	Now     time.Time
}

// rewardEffect applies the type-specific side effect of a redemption.
// It runs inside the same unit of work as the points debit.
type rewardEffect func(ctx context.Context, tx portsrepo.TxRepositories, req effectRequest) (effectOutcome, error)

// defaultRewardEffects returns one handler per reward type.
func defaultRewardEffects() map[domain.RewardType]rewardEffect {
	return map[domain.RewardType]rewardEffect{
		domain.RewardListingPriority: listingPriorityEffect,
		domain.RewardCashback:        cashbackEffect,
		domain.RewardDiscountVoucher: discountVoucherEffect,
		domain.RewardOther:           manualFulfilmentEffect,
	}
}

// validateRewardEffects fails if any reward type lacks a handler or a redeem reason.
func validateRewardEffects(effects map[domain.RewardType]rewardEffect) error {
	for _, t := range domain.RewardTypes {
		if _, ok := effects[t]; !ok {
			return fmt.Errorf("%w: no effect handler registered for %s", apperrors.ErrUnsupportedRewardType, t)
		}
		if _, ok := domain.LookupReason(domain.RedeemReasonKey(t)); !ok {
			return fmt.Errorf("%w: no reason registered for %s", apperrors.ErrUnsupportedRewardType, domain.RedeemReasonKey(t))
		}
	}
	return nil
}

func listingPriorityEffect(ctx context.Context, tx portsrepo.TxRepositories, req effectRequest) (effectOutcome, error) {
	if req.Context.ListingID == nil || *req.Context.ListingID == "" {
		return effectOutcome{}, apperrors.ErrListingRequired
	}
	listingID := *req.Context.ListingID

	listing, err := tx.Listings.FindListingByIDForUpdate(ctx, listingID)
	if err != nil {
		return effectOutcome{}, err
	}
	if listing.OwnerID != req.Account.AccountID {
		return effectOutcome{}, apperrors.ErrListingNotOwned
	}
	if listing.IsPriority {
		return effectOutcome{}, apperrors.ErrAlreadyPriority
	}

	var expiresAt *time.Time
	msg := fmt.Sprintf("Listing %q is now a priority listing", listing.Title)
	if req.Reward.DurationDays != nil {
		t := req.Now.AddDate(0, 0, *req.Reward.DurationDays)
		expiresAt = &t
		msg = fmt.Sprintf("%s until %s", msg, t.Format(time.RFC3339))
	}
	if err := tx.Listings.SetPriority(ctx, listingID, expiresAt, req.Account.AccountID, req.Now); err != nil {
		return effectOutcome{}, err
	}
	return effectOutcome{LinkedEntityID: listingID, Message: msg}, nil
}

func newFulfilment(req effectRequest) domain.RewardFulfilment {
	return domain.RewardFulfilment{
		FulfilmentID: uuid.NewString(),
		AccountID:    req.Account.AccountID,
		RewardID:     req.Reward.RewardID,
		RewardType:   req.Reward.Type,
		PointsSpent:  req.Reward.PointsCost,
		CashValue:    req.Reward.CashValue,
		Status:       domain.FulfilmentPending,
		CreatedAt:    req.Now,
	}
}

// cashbackEffect records a manual payout request. No funds move in-system.
func cashbackEffect(ctx context.Context, tx portsrepo.TxRepositories, req effectRequest) (effectOutcome, error) {
	f := newFulfilment(req)
	if err := tx.Fulfilments.SaveFulfilment(ctx, f); err != nil {
		return effectOutcome{}, err
	}
	msg := fmt.Sprintf("Cashback request for %q submitted. Tracking ID: %s", req.Reward.Title, f.FulfilmentID)
	if req.Reward.CashValue != nil {
		msg = fmt.Sprintf("Cashback request of %s for %q submitted. Tracking ID: %s", req.Reward.CashValue.StringFixed(2), req.Reward.Title, f.FulfilmentID)
	}
	return effectOutcome{LinkedEntityID: f.FulfilmentID, Message: msg}, nil
}

func discountVoucherEffect(ctx context.Context, tx portsrepo.TxRepositories, req effectRequest) (effectOutcome, error) {
	code, err := utils.GenerateCode("PNV", 3, 4)
	if err != nil {
		return effectOutcome{}, err
	}
	f := newFulfilment(req)
	f.VoucherCode = &code
	f.Status = domain.FulfilmentCompleted
	if err := tx.Fulfilments.SaveFulfilment(ctx, f); err != nil {
		return effectOutcome{}, err
	}
	return effectOutcome{
		LinkedEntityID: f.FulfilmentID,
		Message:        fmt.Sprintf("Voucher for %q issued: %s", req.Reward.Title, code),
	}, nil
}

func manualFulfilmentEffect(ctx context.Context, tx portsrepo.TxRepositories, req effectRequest) (effectOutcome, error) {
	f := newFulfilment(req)
	if err := tx.Fulfilments.SaveFulfilment(ctx, f); err != nil {
		return effectOutcome{}, err
	}
	return effectOutcome{
		LinkedEntityID: f.FulfilmentID,
		Message:        fmt.Sprintf("Redeemed %q. Our team will be in touch. Tracking ID: %s", req.Reward.Title, f.FulfilmentID),
	}, nil
}
