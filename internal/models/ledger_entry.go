package models

import "time"

// LedgerEntry is the ledger_entries table row. Rows are inserted, never updated.
type LedgerEntry struct {
	EntryID        string    `db:"entry_id"`
	AccountID      string    `db:"account_id"`
	Points         int64     `db:"points"`
	Action         string    `db:"action"`
	Reason         string    `db:"reason"`
	Description    string    `db:"description"`
	LinkedEntityID *string   `db:"linked_entity_id"`
	CreatedAt      time.Time `db:"created_at"`
}
