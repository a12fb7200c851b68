package repositories

import (
	"context"
)

// IsolationLevel selects the isolation of a unit of work.
type IsolationLevel string

const (
	ReadCommitted IsolationLevel = "read committed"
	Serializable  IsolationLevel = "serializable"
)

// UnitOfWork exposes repositories bound to one open transaction.
// Everything done through it commits or rolls back together.
type UnitOfWork interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Ledger() LedgerRepositoryFacade
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTx begins a transaction, runs fn with a unit of work bound to it and commits when fn
	// returns nil. Any error from fn, or a panic, rolls the transaction back.
	// Serialization failures are reported as apperrors.ErrConcurrencyConflict.
	WithinTx(ctx context.Context, level IsolationLevel, fn func(ctx context.Context, uow UnitOfWork) error) error
}
