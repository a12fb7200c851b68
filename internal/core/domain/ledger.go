package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is an immutable record of one posted line's effect on its account.
type LedgerRow struct {
	LedgerID    int64           `json:"ledgerID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode,omitempty"`
	AccountName string          `json:"accountName,omitempty"`
	EntryNo     string          `json:"entryNo"`
	EntryDate   time.Time       `json:"entryDate"`
	VoucherType VoucherType     `json:"voucherType"`
	Particulars string          `json:"particulars"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// LedgerCursor positions keyset pagination over ledger rows.
type LedgerCursor struct {
	EntryDate time.Time
	LedgerID  int64
}

// LedgerFilter narrows ledger listings. Zero values mean no restriction.
type LedgerFilter struct {
	AccountID string
	EntryID   string
	From      *time.Time
	To        *time.Time
	After     *LedgerCursor
	Limit     int
}

// AccountStatement is an account's ledger for a period with its opening and closing balances.
type AccountStatement struct {
	Account        Account         `json:"account"`
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Rows           []LedgerRow     `json:"rows"`
}
