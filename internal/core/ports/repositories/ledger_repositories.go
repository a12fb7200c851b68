package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the ledger projection
type LedgerReader interface {
	// LatestBalance returns the balance carried by the most recent ledger row of the account, zero if none.
	LatestBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ListLedgerRows retrieves rows ordered by entry date then ledger id.
	ListLedgerRows(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerRow, error)

	// FindLedgerRowByID retrieves a single ledger row.
	FindLedgerRowByID(ctx context.Context, ledgerID int64) (*domain.LedgerRow, error)

	// OpeningBalance sums debit minus credit of rows dated strictly before the given date.
	// An empty accountID means every account.
	OpeningBalance(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error)
}

// LedgerWriter appends ledger rows. There is no update or delete path.
type LedgerWriter interface {
	// AppendLedgerRow inserts a row and returns it with its assigned ledger id.
	AppendLedgerRow(ctx context.Context, row domain.LedgerRow) (domain.LedgerRow, error)
}

// LedgerRepositoryFacade combines ledger reads and appends
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
