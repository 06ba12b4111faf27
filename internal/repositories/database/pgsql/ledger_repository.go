package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/propnest_backend/internal/apperrors"
	"github.com/SscSPs/propnest_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/propnest_backend/internal/core/ports/repositories"
	"github.com/SscSPs/propnest_backend/internal/models"
	"github.com/SscSPs/propnest_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository reads and appends points ledger entries.
// ledger_entries is append-only: this type has no update or delete path.
type PgxLedgerRepository struct {
	db DBTX
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{db: pool}
}

var (
	_ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)
	_ portsrepo.LedgerWriter           = (*PgxLedgerRepository)(nil)
)

func toModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		Points:         d.Points,
		Action:         string(d.Action),
		Reason:         string(d.Reason),
		Description:    d.Description,
		LinkedEntityID: d.LinkedEntityID,
		CreatedAt:      d.CreatedAt,
	}
}

func toDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		Points:         m.Points,
		Action:         domain.Direction(m.Action),
		Reason:         domain.ReasonKey(m.Reason),
		Description:    m.Description,
		LinkedEntityID: m.LinkedEntityID,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := toModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, account_id, points, action, reason, description, linked_entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID,
		m.AccountID,
		m.Points,
		m.Action,
		m.Reason,
		m.Description,
		m.LinkedEntityID,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// ListEntriesByAccount returns entries newest first. The token is a
// (created_at, entry_id) keyset cursor of the last row of the previous page.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []any{accountID}
	query := `
		SELECT entry_id, account_id, points, action, reason, description, linked_entity_id, created_at
		FROM ledger_entries
		WHERE account_id = $1`

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC`
	if limit > 0 {
		// Fetch one extra row to know whether another page exists.
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit+1)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for %s: %w", accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.AccountID,
			&m.Points,
			&m.Action,
			&m.Reason,
			&m.Description,
			&m.LinkedEntityID,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, toDomainLedgerEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	if limit <= 0 || len(entries) <= limit {
		return entries, nil, nil
	}
	entries = entries[:limit]
	last := entries[len(entries)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.EntryID)
	return entries, &token, nil
}

func (r *PgxLedgerRepository) FindBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, error) {
	query := `
		SELECT a.account_id, a.points_balance, COALESCE(SUM(l.points), 0)::BIGINT AS ledger_sum
		FROM accounts a
		LEFT JOIN ledger_entries l ON l.account_id = a.account_id
		GROUP BY a.account_id, a.points_balance
		HAVING a.points_balance <> COALESCE(SUM(l.points), 0)
		ORDER BY a.account_id;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance drift: %w", err)
	}
	defer rows.Close()

	var drifts []domain.BalanceDrift
	for rows.Next() {
		var d domain.BalanceDrift
		if err := rows.Scan(&d.AccountID, &d.StoredBalance, &d.LedgerSum); err != nil {
			return nil, fmt.Errorf("failed to scan balance drift: %w", err)
		}
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance drift: %w", err)
	}
	return drifts, nil
}
