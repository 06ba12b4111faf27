package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReviewRepository struct {
	db DBTX
}

func newPgxReviewRepository(pool *pgxpool.Pool) *PgxReviewRepository {
	return &PgxReviewRepository{db: pool}
}

var (
	_ portsrepo.ReviewReader = (*PgxReviewRepository)(nil)
	_ portsrepo.ReviewWriter = (*PgxReviewRepository)(nil)
)

// SaveReview inserts a review. A second review of the same listing by the
// same author violates the (listing_id, author_id) unique index.
func (r *PgxReviewRepository) SaveReview(ctx context.Context, review domain.Review) error {
	query := `
		INSERT INTO reviews (review_id, listing_id, author_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		review.ReviewID,
		review.ListingID,
		review.AuthorID,
		int32(review.Rating),
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: listing %s already reviewed by %s", apperrors.ErrDuplicate, review.ListingID, review.AuthorID)
		}
		return fmt.Errorf("failed to save review %s: %w", review.ReviewID, err)
	}
	return nil
}

func (r *PgxReviewRepository) ListReviewsByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	query := `
		SELECT review_id, listing_id, author_id, rating, comment, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC, review_id DESC;
	`
	rows, err := r.db.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews for %s: %w", listingID, err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var m models.Review
		if err := rows.Scan(&m.ReviewID, &m.ListingID, &m.AuthorID, &m.Rating, &m.Comment, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, domain.Review{
			ReviewID:  m.ReviewID,
			ListingID: m.ListingID,
			AuthorID:  m.AuthorID,
			Rating:    int(m.Rating),
			Comment:   m.Comment,
			CreatedAt: m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}
