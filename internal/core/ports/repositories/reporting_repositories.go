package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines operations for retrieving financial report data
type ReportingRepository interface {
	// GetAccountTotals sums ledger movement per account for rows dated within [from, to].
	// A nil bound is open.
	GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotal, error)

	// GetCashCounterTotals sums, per non-cash account, the lines of entries dated within [from, to]
	// that also touch a cash account.
	GetCashCounterTotals(ctx context.Context, from, to time.Time) ([]domain.AccountTotal, error)

	// GetCashBalanceBefore sums debit minus credit on cash accounts for rows dated before the given date.
	GetCashBalanceBefore(ctx context.Context, before time.Time) (decimal.Decimal, error)
}
