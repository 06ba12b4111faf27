package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxListingRepository struct {
	db DBTX
}

func newPgxListingRepository(pool *pgxpool.Pool) *PgxListingRepository {
	return &PgxListingRepository{db: pool}
}

var (
	_ portsrepo.ListingRepositoryFacade = (*PgxListingRepository)(nil)
	_ portsrepo.ListingTxWriter         = (*PgxListingRepository)(nil)
)

const listingColumns = `listing_id, owner_id, title, description, address, monthly_rent, is_priority, priority_expires_at,
	created_at, created_by, last_updated_at, last_updated_by`

func toDomainListing(m models.Listing) domain.Listing {
	return domain.Listing{
		ListingID:         m.ListingID,
		OwnerID:           m.OwnerID,
		Title:             m.Title,
		Description:       m.Description,
		Address:           m.Address,
		MonthlyRent:       m.MonthlyRent,
		IsPriority:        m.IsPriority,
		PriorityExpiresAt: m.PriorityExpiresAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var m models.Listing
	err := row.Scan(
		&m.ListingID,
		&m.OwnerID,
		&m.Title,
		&m.Description,
		&m.Address,
		&m.MonthlyRent,
		&m.IsPriority,
		&m.PriorityExpiresAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	return toDomainListing(m), nil
}

func (r *PgxListingRepository) findOne(ctx context.Context, query, listingID string) (*domain.Listing, error) {
	l, err := scanListing(r.db.QueryRow(ctx, query, listingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing %s: %w", listingID, err)
	}
	return &l, nil
}

func (r *PgxListingRepository) FindListingByID(ctx context.Context, listingID string) (*domain.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE listing_id = $1;`, listingID)
}

// FindListingByIDForUpdate locks the row until the surrounding transaction ends.
func (r *PgxListingRepository) FindListingByIDForUpdate(ctx context.Context, listingID string) (*domain.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE listing_id = $1 FOR UPDATE;`, listingID)
}

func (r *PgxListingRepository) ListListingsByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC, listing_id DESC;`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for %s: %w", ownerID, err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}

func (r *PgxListingRepository) SaveListing(ctx context.Context, listing domain.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		listing.ListingID,
		listing.OwnerID,
		listing.Title,
		listing.Description,
		listing.Address,
		listing.MonthlyRent,
		listing.IsPriority,
		listing.PriorityExpiresAt,
		listing.CreatedAt,
		listing.CreatedBy,
		listing.LastUpdatedAt,
		listing.LastUpdatedBy,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: listing %s", apperrors.ErrDuplicate, listing.ListingID)
		}
		return fmt.Errorf("failed to save listing %s: %w", listing.ListingID, err)
	}
	return nil
}

func (r *PgxListingRepository) SetPriority(ctx context.Context, listingID string, expiresAt *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE listings
		SET is_priority = TRUE, priority_expires_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE listing_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, listingID, expiresAt, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set priority on listing %s: %w", listingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxListingRepository) ClearExpiredPriorities(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE listings
		SET is_priority = FALSE, priority_expires_at = NULL, last_updated_at = $1, last_updated_by = 'system'
		WHERE is_priority = TRUE AND priority_expires_at IS NOT NULL AND priority_expires_at < $1;
	`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired priorities: %w", err)
	}
	return tag.RowsAffected(), nil
}
