package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/platform/metrics"
	"github.com/google/uuid"
)

type listingService struct {
	BaseService
	listingRepo portsrepo.ListingRepositoryFacade
	reviewRepo  portsrepo.ReviewReader
	uow         portsrepo.UnitOfWork
	points      portssvc.PointsProcessorSvc
}

// ListingServiceOption is a functional option for configuring the listing service
type ListingServiceOption func(*listingService)

// WithListingClock overrides the time source.
func WithListingClock(now func() time.Time) ListingServiceOption {
	return func(s *listingService) {
		s.Clock = now
	}
}

// NewListingService creates a new listing service.
func NewListingService(repo portsrepo.ListingRepositoryFacade, reviewRepo portsrepo.ReviewReader, uow portsrepo.UnitOfWork, points portssvc.PointsProcessorSvc, options ...ListingServiceOption) portssvc.ListingSvcFacade {
	svc := &listingService{
		listingRepo: repo,
		reviewRepo:  reviewRepo,
		uow:         uow,
		points:      points,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ListingSvcFacade = (*listingService)(nil)

func (s *listingService) CreateListing(ctx context.Context, ownerID string, req dto.CreateListingRequest) (*domain.Listing, error) {
	now := s.Now()
	listing := domain.Listing{
		ListingID:   uuid.NewString(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Address:     strings.TrimSpace(req.Address),
		MonthlyRent: req.MonthlyRent,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.listingRepo.SaveListing(ctx, listing); err != nil {
		s.LogError(ctx, err, "Failed to save listing", slog.String("owner_id", ownerID))
		return nil, err
	}
	s.LogInfo(ctx, "Listing created", slog.String("listing_id", listing.ListingID))
	return &listing, nil
}

func (s *listingService) GetListing(ctx context.Context, listingID string) (*domain.Listing, error) {
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find listing", slog.String("listing_id", listingID))
	}
	return listing, err
}

func (s *listingService) ListListingsByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	listings, err := s.listingRepo.ListListingsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list listings", slog.String("owner_id", ownerID))
		return nil, err
	}
	if listings == nil {
		return []domain.Listing{}, nil
	}
	return listings, nil
}

func (s *listingService) ListReviews(ctx context.Context, listingID string) ([]domain.Review, error) {
	if _, err := s.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListReviewsByListing(ctx, listingID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reviews", slog.String("listing_id", listingID))
		return nil, err
	}
	return reviews, nil
}

func (s *listingService) CreateReview(ctx context.Context, listingID string, authorID string, req dto.CreateReviewRequest) (*domain.Review, int64, error) {
	listing, err := s.listingRepo.FindListingByID(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}
	if listing.OwnerID == authorID {
		return nil, 0, apperrors.ErrSelfReview
	}

	review := domain.Review{
		ReviewID:  uuid.NewString(),
		ListingID: listingID,
		AuthorID:  authorID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: s.Now(),
	}

	var newBalance int64
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.TxRepositories) error {
		if err := tx.Reviews.SaveReview(ctx, review); err != nil {
			return err
		}
		var err error
		newBalance, err = s.points.ApplyTransactionTx(ctx, tx, domain.PointsTransaction{
			AccountID:      authorID,
			Reason:         domain.ReasonReviewListing,
			LinkedEntityID: &review.ReviewID,
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save review", slog.String("listing_id", listingID))
		}
		return nil, 0, err
	}

	s.LogInfo(ctx, "Review created", slog.String("review_id", review.ReviewID), slog.String("listing_id", listingID))
	return &review, newBalance, nil
}

func (s *listingService) SweepExpiredPriorities(ctx context.Context, now time.Time) (int64, error) {
	cleared, err := s.listingRepo.ClearExpiredPriorities(ctx, now)
	if err != nil {
		s.LogError(ctx, err, "Priority sweep failed")
		return 0, err
	}
	if cleared > 0 {
		metrics.PrioritiesCleared.Add(float64(cleared))
		s.LogInfo(ctx, "Expired priority listings cleared", slog.Int64("count", cleared))
	}
	return cleared, nil
}
