package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListLedgerParams defines query parameters for reading the ledger.
type ListLedgerParams struct {
	AccountID string `form:"accountID"`
	EntryID   string `form:"entryID"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=50" binding:"min=1,max=500"`
	NextToken string `form:"nextToken"`
}

// OpeningBalanceParams defines query parameters for the opening balance.
type OpeningBalanceParams struct {
	AccountID string `form:"accountID"` // empty sums every account
	Before    string `form:"before" binding:"required,datetime=2006-01-02"`
}

// PeriodParams is an optional inclusive date range.
type PeriodParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// LedgerRowResponse defines the data returned for a ledger row.
type LedgerRowResponse struct {
	LedgerID    int64              `json:"ledgerID"`
	EntryID     string             `json:"entryID"`
	EntryNo     string             `json:"entryNo"`
	EntryDate   string             `json:"entryDate"`
	VoucherType domain.VoucherType `json:"voucherType"`
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode,omitempty"`
	AccountName string             `json:"accountName,omitempty"`
	Particulars string             `json:"particulars"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
	Balance     decimal.Decimal    `json:"balance"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ListLedgerResponse is a page of ledger rows. NextToken is set when more rows may follow.
type ListLedgerResponse struct {
	Rows      []LedgerRowResponse `json:"rows"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// OpeningBalanceResponse defines the data returned for an opening balance query.
type OpeningBalanceResponse struct {
	AccountID string          `json:"accountID,omitempty"`
	Before    string          `json:"before"`
	Balance   decimal.Decimal `json:"balance"`
}

// VoucherResponse pairs a ledger row with the entry that produced it.
type VoucherResponse struct {
	Row   LedgerRowResponse    `json:"row"`
	Entry JournalEntryResponse `json:"entry"`
}

// AccountStatementResponse defines the data returned for an account statement.
type AccountStatementResponse struct {
	Account        AccountResponse     `json:"account"`
	From           string              `json:"from,omitempty"`
	To             string              `json:"to,omitempty"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
	TotalDebit     decimal.Decimal     `json:"totalDebit"`
	TotalCredit    decimal.Decimal     `json:"totalCredit"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
	Rows           []LedgerRowResponse `json:"rows"`
}

// ToLedgerRowResponse converts a domain.LedgerRow to its DTO.
func ToLedgerRowResponse(r *domain.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		LedgerID:    r.LedgerID,
		EntryID:     r.EntryID,
		EntryNo:     r.EntryNo,
		EntryDate:   r.EntryDate.Format(DateLayout),
		VoucherType: r.VoucherType,
		AccountID:   r.AccountID,
		AccountCode: r.AccountCode,
		AccountName: r.AccountName,
		Particulars: r.Particulars,
		Debit:       r.Debit,
		Credit:      r.Credit,
		Balance:     r.Balance,
		CreatedAt:   r.CreatedAt,
	}
}

// ToLedgerRowResponses converts ledger rows.
func ToLedgerRowResponses(rows []domain.LedgerRow) []LedgerRowResponse {
	res := make([]LedgerRowResponse, len(rows))
	for i := range rows {
		res[i] = ToLedgerRowResponse(&rows[i])
	}
	return res
}

// ToAccountStatementResponse converts a domain.AccountStatement to its DTO.
func ToAccountStatementResponse(s *domain.AccountStatement) AccountStatementResponse {
	res := AccountStatementResponse{
		Account:        ToAccountResponse(&s.Account),
		OpeningBalance: s.OpeningBalance,
		TotalDebit:     s.TotalDebit,
		TotalCredit:    s.TotalCredit,
		ClosingBalance: s.ClosingBalance,
		Rows:           ToLedgerRowResponses(s.Rows),
	}
	if s.From != nil {
		res.From = s.From.Format(DateLayout)
	}
	if s.To != nil {
		res.To = s.To.Format(DateLayout)
	}
	return res
}
