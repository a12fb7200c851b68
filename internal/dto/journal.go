package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a draft entry. Exactly one of Debit or Credit must be non-zero.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit" binding:"decimalgte0"`
	Credit    decimal.Decimal `json:"credit" binding:"decimalgte0"`
}

// CreateJournalEntryRequest defines the data needed to create a draft journal entry.
type CreateJournalEntryRequest struct {
	EntryDate   string               `json:"entryDate" binding:"required,datetime=2006-01-02"`
	VoucherType domain.VoucherType   `json:"voucherType" binding:"required,vouchertype"`
	Description string               `json:"description"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateJournalEntryRequest replaces the header and every line of a draft entry.
type UpdateJournalEntryRequest CreateJournalEntryRequest

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	From        string             `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string             `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Status      domain.EntryStatus `form:"status" binding:"omitempty,oneof=D P"`
	VoucherType domain.VoucherType `form:"voucherType" binding:"omitempty,vouchertype"`
	Search      string             `form:"search"`
	Limit       int                `form:"limit,default=20" binding:"min=1,max=100"`
	Offset      int                `form:"offset,default=0" binding:"min=0"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID       string                `json:"entryID"`
	EntryNo       string                `json:"entryNo"`
	EntryDate     string                `json:"entryDate"`
	VoucherType   domain.VoucherType    `json:"voucherType"`
	Description   string                `json:"description"`
	Status        domain.EntryStatus    `json:"status"`
	PostedAt      *time.Time            `json:"postedAt,omitempty"`
	PostedBy      *string               `json:"postedBy,omitempty"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy string                `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse wraps a page of entry headers.
type ListJournalEntriesResponse struct {
	Entries []JournalEntryResponse `json:"entries"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// ToJournalEntryResponse converts a domain.JournalEntry (with any loaded lines) to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	res := JournalEntryResponse{
		EntryID:       e.EntryID,
		EntryNo:       e.EntryNo,
		EntryDate:     e.EntryDate.Format(DateLayout),
		VoucherType:   e.VoucherType,
		Description:   e.Description,
		Status:        e.Status,
		PostedAt:      e.PostedAt,
		PostedBy:      e.PostedBy,
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
	if len(e.Lines) > 0 {
		res.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			res.Lines[i] = JournalLineResponse{
				LineID:    l.LineID,
				LineNo:    l.LineNo,
				AccountID: l.AccountID,
				Narration: l.Narration,
				Debit:     l.Debit,
				Credit:    l.Credit,
			}
			res.TotalDebit = res.TotalDebit.Add(l.Debit)
			res.TotalCredit = res.TotalCredit.Add(l.Credit)
		}
	}
	return res
}

// ToJournalEntryResponses converts entry headers.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}
