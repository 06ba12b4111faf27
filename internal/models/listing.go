package models

import "time"

// Listing is the listings table row.
type Listing struct {
	ListingID         string     `db:"listing_id"`
	OwnerID           string     `db:"owner_id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	Address           string     `db:"address"`
	MonthlyRent       int64      `db:"monthly_rent"`
	IsPriority        bool       `db:"is_priority"`
	PriorityExpiresAt *time.Time `db:"priority_expires_at"`
	AuditFields
}

// Review is the reviews table row. (listing_id, author_id) is UNIQUE.
type Review struct {
	ReviewID  string    `db:"review_id"`
	ListingID string    `db:"listing_id"`
	AuthorID  string    `db:"author_id"`
	Rating    int32     `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}
