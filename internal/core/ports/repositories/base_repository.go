package repositories

import "context"

// TxRepositories exposes the writers that must share a single database transaction.
// Every value is bound to the same underlying transaction.
type TxRepositories struct {
	Accounts    AccountTxWriter
	Ledger      LedgerWriter
	Listings    ListingTxWriter
	Reviews     ReviewWriter
	Fulfilments FulfilmentWriter
}

// UnitOfWork runs fn inside one database transaction. The transaction is committed
// when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx TxRepositories) error) error
}
