package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/core/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type ListingServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	service  portssvc.ListingSvcFacade
	landlord domain.Account
	tenant   domain.Account
}

func (s *ListingServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	clock := newFakeClock()
	points := services.NewPointsService(s.store, s.store, s.store, services.WithPointsClock(clock.Now))
	s.service = services.NewListingService(s.store, s.store, s.store, points, services.WithListingClock(clock.Now))
	s.landlord = seedAccount(s.T(), s.store, domain.RoleLandlord)
	s.tenant = seedAccount(s.T(), s.store, domain.RoleTenant)
}

func TestListingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ListingServiceTestSuite))
}

func (s *ListingServiceTestSuite) TestCreateAndList() {
	created, err := s.service.CreateListing(s.ctx, s.landlord.AccountID, dto.CreateListingRequest{
		Title:       " Loft ",
		Address:     "2 Mill Lane",
		MonthlyRent: 950,
	})
	s.Require().NoError(err)
	s.Equal("Loft", created.Title)
	s.False(created.IsPriority)

	got, err := s.service.GetListing(s.ctx, created.ListingID)
	s.Require().NoError(err)
	s.Equal(created.ListingID, got.ListingID)

	mine, err := s.service.ListListingsByOwner(s.ctx, s.landlord.AccountID)
	s.Require().NoError(err)
	s.Len(mine, 1)

	none, err := s.service.ListListingsByOwner(s.ctx, s.tenant.AccountID)
	s.Require().NoError(err)
	s.NotNil(none)
	s.Empty(none)

	_, err = s.service.GetListing(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ListingServiceTestSuite) TestCreateReview_CreditsOncePerListing() {
	listing := seedListing(s.T(), s.store, s.landlord.AccountID)

	review, balance, err := s.service.CreateReview(s.ctx, listing.ListingID, s.tenant.AccountID, dto.CreateReviewRequest{Rating: 4, Comment: "Bright"})
	s.Require().NoError(err)
	s.Equal(int64(10), balance)

	entries := entriesFor(s.store, s.tenant.AccountID)
	s.Require().Len(entries, 1)
	s.Equal(review.ReviewID, *entries[0].LinkedEntityID)

	_, _, err = s.service.CreateReview(s.ctx, listing.ListingID, s.tenant.AccountID, dto.CreateReviewRequest{Rating: 5})
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.Equal(int64(10), balanceOf(s.T(), s.store, s.tenant.AccountID))

	reviews, err := s.service.ListReviews(s.ctx, listing.ListingID)
	s.Require().NoError(err)
	s.Len(reviews, 1)

	_, err = s.service.ListReviews(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ListingServiceTestSuite) TestCreateReview_Rejections() {
	listing := seedListing(s.T(), s.store, s.landlord.AccountID)

	_, _, err := s.service.CreateReview(s.ctx, listing.ListingID, s.landlord.AccountID, dto.CreateReviewRequest{Rating: 5})
	s.ErrorIs(err, apperrors.ErrSelfReview)

	_, _, err = s.service.CreateReview(s.ctx, "missing", s.tenant.AccountID, dto.CreateReviewRequest{Rating: 5})
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Empty(s.store.Entries())
}

func (s *ListingServiceTestSuite) TestSweepExpiredPriorities() {
	expired := seedListing(s.T(), s.store, s.landlord.AccountID)
	active := seedListing(s.T(), s.store, s.landlord.AccountID)
	permanent := seedListing(s.T(), s.store, s.landlord.AccountID)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Listings.SetPriority(ctx, expired.ListingID, &past, "t", now); err != nil {
			return err
		}
		if err := tx.Listings.SetPriority(ctx, active.ListingID, &future, "t", now); err != nil {
			return err
		}
		return tx.Listings.SetPriority(ctx, permanent.ListingID, nil, "t", now)
	})
	s.Require().NoError(err)

	cleared, err := s.service.SweepExpiredPriorities(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), cleared)

	for id, want := range map[string]bool{expired.ListingID: false, active.ListingID: true, permanent.ListingID: true} {
		l, err := s.store.FindListingByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(want, l.IsPriority, id)
	}

	cleared, err = s.service.SweepExpiredPriorities(s.ctx, now)
	s.Require().NoError(err)
	s.Zero(cleared)
}
