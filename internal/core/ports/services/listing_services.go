package services

import (
	"context"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
	"github.com/SscSPs/propnest_backend/internal/dto"
)

// ListingSvcFacade covers the listing operations the rewards flow depends on.
type ListingSvcFacade interface {
	CreateListing(ctx context.Context, ownerID string, req dto.CreateListingRequest) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListingsByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
	ListReviews(ctx context.Context, listingID string) ([]domain.Review, error)

	// CreateReview stores a review and credits REVIEW_LISTING points to the author.
	// It returns the review and the author's new balance.
	CreateReview(ctx context.Context, listingID string, authorID string, req dto.CreateReviewRequest) (*domain.Review, int64, error)

	// SweepExpiredPriorities clears priority flags that expired before now.
	SweepExpiredPriorities(ctx context.Context, now time.Time) (int64, error)
}
