package outbound

import "context"

// TxRepositories bundles the repositories bound to one transaction.
type TxRepositories struct {
	Accounts   AccountRepository
	TokenPairs TokenPairRepository
}

// UnitOfWork runs fn inside a single storage transaction. If fn returns an
// error every write is rolled back, otherwise the transaction commits.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
