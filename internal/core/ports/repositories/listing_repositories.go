package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// ListingReader defines read operations for listing data
type ListingReader interface {
	FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error)
	ListListingsByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error)
}

// ListingWriter defines listing writes that do not need a unit of work.
type ListingWriter interface {
	SaveListing(ctx context.Context, listing domain.Listing) error

	// ClearExpiredPriorities resets the priority flag on listings whose expiry is before now.
	ClearExpiredPriorities(ctx context.Context, now time.Time) (int64, error)
}

// ListingTxWriter defines listing operations used by reward effects inside a unit of work.
type ListingTxWriter interface {
	// FindListingByIDForUpdate selects a listing and locks it until the transaction ends.
	FindListingByIDForUpdate(ctx context.Context, listingID string) (*domain.Listing, error)

	// SetPriority flags the listing as priority with an optional expiry.
	SetPriority(ctx context.Context, listingID string, expiresAt *time.Time, userID string, now time.Time) error
}

// ListingRepositoryFacade combines the listing operations used outside a unit of work.
type ListingRepositoryFacade interface {
	ListingReader
	ListingWriter
}

// ReviewReader defines read operations for reviews
type ReviewReader interface {
	ListReviewsByListing(ctx context.Context, listingID string) ([]domain.Review, error)
}

// ReviewWriter persists reviews inside a unit of work.
type ReviewWriter interface {
	SaveReview(ctx context.Context, review domain.Review) error
}

// FulfilmentReader defines read operations for out-of-band reward fulfilments.
type FulfilmentReader interface {
	ListFulfilmentsByAccount(ctx context.Context, accountID string) ([]domain.RewardFulfilment, error)
}

// FulfilmentWriter persists fulfilment records inside a unit of work.
type FulfilmentWriter interface {
	SaveFulfilment(ctx context.Context, f domain.RewardFulfilment) error
}
