package domain

import "time"

// Listing is a property listing. Only the fields the rewards flow touches live here.
type Listing struct {
	ListingID         string     `json:"listingID"`
	OwnerID           string     `json:"ownerID"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Address           string     `json:"address"`
	MonthlyRent       int64      `json:"monthlyRent"`
	IsPriority        bool       `json:"isPriority"`
	PriorityExpiresAt *time.Time `json:"priorityExpiresAt,omitempty"`
	AuditFields
}

// Review is a tenant's review of a listing.
type Review struct {
	ReviewID  string    `json:"reviewID"`
	ListingID string    `json:"listingID"`
	AuthorID  string    `json:"authorID"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
