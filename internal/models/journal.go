package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID     string     `db:"entry_id"`
	EntryNo     string     `db:"entry_no"`
	EntryDate   time.Time  `db:"entry_date"`
	VoucherType string     `db:"voucher_type"`
	Description *string    `db:"description"` // Nullable
	Status      string     `db:"status"`
	PostedAt    *time.Time `db:"posted_at"`
	PostedBy    *string    `db:"posted_by"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Narration *string         `db:"narration"` // Nullable
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
}
