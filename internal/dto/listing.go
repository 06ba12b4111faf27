package dto

import (
	"time"

	"github.com/SscSPs/propnest_backend/internal/core/domain"
)

// CreateListingRequest defines the data needed to publish a listing.
type CreateListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	MonthlyRent int64  `json:"monthlyRent" binding:"required,gt=0"`
}

// ListingResponse defines the data returned for a listing.
type ListingResponse struct {
	ListingID         string     `json:"listingID"`
	OwnerID           string     `json:"ownerID"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Address           string     `json:"address"`
	MonthlyRent       int64      `json:"monthlyRent"`
	IsPriority        bool       `json:"isPriority"`
	PriorityExpiresAt *time.Time `json:"priorityExpiresAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ListListingsResponse wraps a list of listings.
type ListListingsResponse struct {
	Listings []ListingResponse `json:"listings"`
}

// CreateReviewRequest is the body of POST /listings/:listingID/reviews.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse returns the created review and the author's new balance.
type ReviewResponse struct {
	ReviewID       string    `json:"reviewID"`
	ListingID      string    `json:"listingID"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	CreatedAt      time.Time `json:"createdAt"`
	NewPointsTotal int64     `json:"newPointsTotal"`
}

// ToListingResponse converts a domain.Listing to ListingResponse DTO
func ToListingResponse(l *domain.Listing) ListingResponse {
	return ListingResponse{
		ListingID:         l.ListingID,
		OwnerID:           l.OwnerID,
		Title:             l.Title,
		Description:       l.Description,
		Address:           l.Address,
		MonthlyRent:       l.MonthlyRent,
		IsPriority:        l.IsPriority,
		PriorityExpiresAt: l.PriorityExpiresAt,
		CreatedAt:         l.CreatedAt,
	}
}

// ToListListingsResponse converts a slice of listings to ListListingsResponse
func ToListListingsResponse(listings []domain.Listing) ListListingsResponse {
	res := make([]ListingResponse, len(listings))
	for i := range listings {
		res[i] = ToListingResponse(&listings[i])
	}
	return ListListingsResponse{Listings: res}
}

// ListReviewsResponse wraps the reviews of one listing.
type ListReviewsResponse struct {
	Reviews []domain.Review `json:"reviews"`
}
