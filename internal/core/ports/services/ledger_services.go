package services

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerPage is one keyset page of ledger rows.
type LedgerPage struct {
	Rows      []domain.LedgerRow
	NextToken *string
}

// Voucher is a ledger row together with the entry that produced it.
type Voucher struct {
	Row   domain.LedgerRow
	Entry domain.JournalEntry
}

// LedgerReaderSvc defines read operations over posted ledger rows
type LedgerReaderSvc interface {
	// GetLedger lists rows ordered by entry date then ledger id.
	GetLedger(ctx context.Context, params dto.ListLedgerParams) (*LedgerPage, error)

	// GetOpeningBalance sums debit minus credit of rows dated strictly before the given date.
	// A nil accountID covers every account.
	GetOpeningBalance(ctx context.Context, accountID *string, before time.Time) (decimal.Decimal, error)

	// GetLedgerRow returns a ledger row with its full journal entry.
	GetLedgerRow(ctx context.Context, ledgerID int64) (*Voucher, error)
}

// AccountStatementSvc builds per-account statements
type AccountStatementSvc interface {
	// GetAccountStatement returns the opening balance, rows, totals and closing balance for a period.
	GetAccountStatement(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountStatement, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	AccountStatementSvc
}
