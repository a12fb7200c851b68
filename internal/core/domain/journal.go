package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "D"
	Posted EntryStatus = "P"
)

// VoucherType classifies journal entries.
type VoucherType string

const (
	JournalVoucher VoucherType = "JOURNAL"
	PaymentVoucher VoucherType = "PAYMENT"
	ReceiptVoucher VoucherType = "RECEIPT"
	ContraVoucher  VoucherType = "CONTRA"
)

// VoucherTypes lists every supported voucher type.
var VoucherTypes = []VoucherType{JournalVoucher, PaymentVoucher, ReceiptVoucher, ContraVoucher}

// Valid reports whether v is a known voucher type.
func (v VoucherType) Valid() bool {
	for _, vt := range VoucherTypes {
		if vt == v {
			return true
		}
	}
	return false
}

// Prefix is the entry number prefix for the voucher type.
func (v VoucherType) Prefix() string {
	switch v {
	case PaymentVoucher:
		return "PV"
	case ReceiptVoucher:
		return "RV"
	case ContraVoucher:
		return "CV"
	default:
		return "JV"
	}
}

// JournalEntry is a dated voucher made of balanced lines.
// Status moves from Draft to Posted once and never back.
type JournalEntry struct {
	EntryID     string        `json:"entryID"`
	EntryNo     string        `json:"entryNo"`
	EntryDate   time.Time     `json:"entryDate"`
	VoucherType VoucherType   `json:"voucherType"`
	Description string        `json:"description"`
	Status      EntryStatus   `json:"status"`
	PostedAt    *time.Time    `json:"postedAt,omitempty"`
	PostedBy    *string       `json:"postedBy,omitempty"`
	Lines       []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// IsPosted reports whether the entry is immutable.
func (e JournalEntry) IsPosted() bool {
	return e.Status == Posted
}

// JournalLine is one debit or credit of a journal entry against a single account.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	EntryID   string          `json:"entryID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// Movement is the signed effect of the line on its account balance.
func (l JournalLine) Movement() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// JournalFilter narrows journal entry listings.
type JournalFilter struct {
	From        *time.Time
	To          *time.Time
	Status      EntryStatus
	VoucherType VoucherType
	Search      string
	Limit       int
	Offset      int
}
