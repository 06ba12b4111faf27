package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/core/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PointsServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	clock   *fakeClock
	service portssvc.PointsSvcFacade
	account domain.Account
}

func (s *PointsServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.clock = newFakeClock()
	s.service = services.NewPointsService(s.store, s.store, s.store, services.WithPointsClock(s.clock.Now))
	s.account = seedAccount(s.T(), s.store, domain.RoleTenant)
}

func TestPointsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PointsServiceTestSuite))
}

func (s *PointsServiceTestSuite) apply(reason domain.ReasonKey, override *int64) (int64, error) {
	return s.service.ApplyTransaction(s.ctx, domain.PointsTransaction{
		AccountID:      s.account.AccountID,
		Reason:         reason,
		OverrideAmount: override,
	})
}

func (s *PointsServiceTestSuite) TestApplyTransaction_FixedReason() {
	linked := "review-1"
	balance, err := s.service.ApplyTransaction(s.ctx, domain.PointsTransaction{
		AccountID:      s.account.AccountID,
		Reason:         domain.ReasonReviewListing,
		LinkedEntityID: &linked,
	})
	s.Require().NoError(err)
	s.Equal(int64(10), balance)

	entries := entriesFor(s.store, s.account.AccountID)
	s.Require().Len(entries, 1)
	s.Equal(int64(10), entries[0].Points)
	s.Equal(domain.DirectionEarn, entries[0].Action)
	s.Equal(domain.ReasonReviewListing, entries[0].Reason)
	s.Equal("Points earned for reviewing a listing", entries[0].Description)
	s.Equal(&linked, entries[0].LinkedEntityID)
	s.NotEmpty(entries[0].EntryID)
}

func (s *PointsServiceTestSuite) TestApplyTransaction_OverrideSignFollowsDirection() {
	balance, err := s.apply(domain.ReasonAdminGrant, ptr(int64(-25)))
	s.Require().NoError(err)
	s.Equal(int64(25), balance, "earn reasons are always credited")

	balance, err = s.apply(domain.RedeemReasonKey(domain.RewardOther), ptr(int64(5)))
	s.Require().NoError(err)
	s.Equal(int64(20), balance, "redeem reasons are always debited")

	entries := entriesFor(s.store, s.account.AccountID)
	s.Require().Len(entries, 2)
	s.Equal(int64(25), entries[0].Points)
	s.Equal(int64(-5), entries[1].Points)
	s.Equal(domain.DirectionRedeem, entries[1].Action)
}

func (s *PointsServiceTestSuite) TestApplyTransaction_OverrideReplacesFixedAmount() {
	balance, err := s.apply(domain.ReasonReviewListing, ptr(int64(3)))
	s.Require().NoError(err)
	s.Equal(int64(3), balance)
}

func (s *PointsServiceTestSuite) TestApplyTransaction_NoOrphanMutation() {
	_, err := s.apply(domain.ReasonAdminGrant, ptr(int64(40)))
	s.Require().NoError(err)

	cases := []struct {
		name     string
		reason   domain.ReasonKey
		override *int64
		wantErr  error
	}{
		{"unknown reason", "DOUBLE_POINTS_FRIDAY", nil, apperrors.ErrUnknownReason},
		{"dynamic reason without amount", domain.ReasonAdminGrant, nil, apperrors.ErrMissingAmount},
		{"redeem reason without amount", domain.RedeemReasonKey(domain.RewardCashback), nil, apperrors.ErrMissingAmount},
		{"zero override", domain.ReasonAdminGrant, ptr(int64(0)), apperrors.ErrMissingAmount},
		{"debit beyond balance", domain.RedeemReasonKey(domain.RewardCashback), ptr(int64(41)), apperrors.ErrInsufficientPoints},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.apply(tc.reason, tc.override)
			s.ErrorIs(err, tc.wantErr)
			s.Equal(int64(40), balanceOf(s.T(), s.store, s.account.AccountID))
			s.Len(entriesFor(s.store, s.account.AccountID), 1)
		})
	}
}

func (s *PointsServiceTestSuite) TestApplyTransaction_UnknownAccount() {
	_, err := s.service.ApplyTransaction(s.ctx, domain.PointsTransaction{
		AccountID: "missing",
		Reason:    domain.ReasonReviewListing,
	})
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Empty(s.store.Entries())
}

func (s *PointsServiceTestSuite) TestApplyTransaction_LedgerFailureRollsBackBalance() {
	svc := services.NewPointsService(&failingLedgerUoW{inner: s.store, err: errors.New("disk full")}, s.store, s.store)

	_, err := svc.ApplyTransaction(s.ctx, domain.PointsTransaction{
		AccountID: s.account.AccountID,
		Reason:    domain.ReasonReviewListing,
	})
	s.ErrorIs(err, apperrors.ErrLedgerWriteFailure)
	s.Equal(int64(0), balanceOf(s.T(), s.store, s.account.AccountID))
	s.Empty(s.store.Entries())
}

func (s *PointsServiceTestSuite) TestApplyTransaction_CommitFailureIsLedgerFailure() {
	svc := services.NewPointsService(&failingCommitUoW{inner: s.store}, s.store, s.store)

	_, err := svc.ApplyTransaction(s.ctx, domain.PointsTransaction{
		AccountID: s.account.AccountID,
		Reason:    domain.ReasonReviewListing,
	})
	s.ErrorIs(err, apperrors.ErrLedgerWriteFailure)
	s.ErrorIs(err, errCommit)
	s.Equal(int64(0), balanceOf(s.T(), s.store, s.account.AccountID))
}

func (s *PointsServiceTestSuite) TestBalanceIdentity() {
	steps := []struct {
		reason   domain.ReasonKey
		override *int64
	}{
		{domain.ReasonReviewListing, nil},
		{domain.ReasonReferralSignup, nil},
		{domain.RedeemReasonKey(domain.RewardCashback), ptr(int64(30))},
		{domain.ReasonCompleteProfile, nil},
		{"NOT_A_REASON", nil},
		{domain.RedeemReasonKey(domain.RewardOther), ptr(int64(500))},
		{domain.ReasonAdminGrant, ptr(int64(7))},
		{domain.RedeemReasonKey(domain.RewardDiscountVoucher), ptr(int64(57))},
	}
	for _, st := range steps {
		_, _ = s.apply(st.reason, st.override)

		var sum int64
		for _, e := range entriesFor(s.store, s.account.AccountID) {
			sum += e.Points
		}
		s.Equal(sum, balanceOf(s.T(), s.store, s.account.AccountID))
	}
	s.Equal(int64(0), balanceOf(s.T(), s.store, s.account.AccountID))

	drifts, err := s.service.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Empty(drifts)
}

func (s *PointsServiceTestSuite) TestReconcile_ReportsDrift() {
	_, err := s.apply(domain.ReasonReviewListing, nil)
	s.Require().NoError(err)

	// Bypass the processor to simulate an out-of-band balance write.
	err = s.store.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		_, err := tx.Accounts.IncrementPointsBalance(ctx, s.account.AccountID, 5, s.clock.Now())
		return err
	})
	s.Require().NoError(err)

	drifts, err := s.service.Reconcile(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(drifts, 1)
	s.Equal(domain.BalanceDrift{AccountID: s.account.AccountID, StoredBalance: 15, LedgerSum: 10}, drifts[0])
}

func (s *PointsServiceTestSuite) TestGetPointsSummary_Paginates() {
	for i := 0; i < 5; i++ {
		_, err := s.apply(domain.ReasonAdminGrant, ptr(int64(i+1)))
		s.Require().NoError(err)
	}

	page1, err := s.service.GetPointsSummary(s.ctx, s.account.AccountID, dto.ListLedgerParams{Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(15), page1.PointsBalance)
	s.Require().Len(page1.Entries, 2)
	s.Equal(int64(5), page1.Entries[0].Points, "newest first")
	s.Equal(int64(4), page1.Entries[1].Points)
	s.Require().NotNil(page1.NextToken)

	page2, err := s.service.GetPointsSummary(s.ctx, s.account.AccountID, dto.ListLedgerParams{Limit: 2, NextToken: page1.NextToken})
	s.Require().NoError(err)
	s.Require().Len(page2.Entries, 2)
	s.Equal(int64(3), page2.Entries[0].Points)

	page3, err := s.service.GetPointsSummary(s.ctx, s.account.AccountID, dto.ListLedgerParams{Limit: 2, NextToken: page2.NextToken})
	s.Require().NoError(err)
	s.Require().Len(page3.Entries, 1)
	s.Equal(int64(1), page3.Entries[0].Points)
	s.Nil(page3.NextToken)
}

func TestGetPointsSummary_BadToken(t *testing.T) {
	store := memory.NewStore()
	acc := seedAccount(t, store, domain.RoleLandlord)
	svc := services.NewPointsService(store, store, store)

	_, err := svc.GetPointsSummary(context.Background(), acc.AccountID, dto.ListLedgerParams{Limit: 10, NextToken: ptr("%%%")})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.GetPointsSummary(context.Background(), "nobody", dto.ListLedgerParams{Limit: 10})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
