package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is a row of the ledger_rows table joined with its account's code and name.
type LedgerRow struct {
	LedgerID    int64           `db:"ledger_id"`
	EntryID     string          `db:"entry_id"`
	AccountID   string          `db:"account_id"`
	AccountCode *string         `db:"account_code"`
	AccountName *string         `db:"account_name"`
	EntryNo     string          `db:"entry_no"`
	EntryDate   time.Time       `db:"entry_date"`
	VoucherType string          `db:"voucher_type"`
	Particulars string          `db:"particulars"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Balance     decimal.Decimal `db:"balance"`
	CreatedAt   time.Time       `db:"created_at"`
}

// AccountTotal is an aggregate row used by reports.
type AccountTotal struct {
	AccountID   string          `db:"account_id"`
	Code        string          `db:"code"`
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
}
