package dto

import (
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AsOfParams selects a report date; today when empty.
type AsOfParams struct {
	AsOf string `form:"asOf" binding:"omitempty,datetime=2006-01-02"`
}

// ReportPeriodParams is the required inclusive period of a report.
type ReportPeriodParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Income   []AccountAmountResponse `json:"income"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetIncome     decimal.Decimal `json:"netIncome"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf            string                  `json:"asOf"`
	Assets          []AccountAmountResponse `json:"assets"`
	Liabilities     []AccountAmountResponse `json:"liabilities"`
	Equity          []AccountAmountResponse `json:"equity"`
	CurrentEarnings decimal.Decimal         `json:"currentEarnings"`
	Summary         struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

// CashFlowSectionResponse is one activity category of the cash flow report.
type CashFlowSectionResponse struct {
	Category string                  `json:"category"`
	Items    []AccountAmountResponse `json:"items"`
	Total    decimal.Decimal         `json:"total"`
}

// CashFlowResponse represents the cash flow report response
type CashFlowResponse struct {
	FromDate    string                    `json:"fromDate"`
	ToDate      string                    `json:"toDate"`
	OpeningCash decimal.Decimal           `json:"openingCash"`
	Sections    []CashFlowSectionResponse `json:"sections"`
	NetChange   decimal.Decimal           `json:"netChange"`
	ClosingCash decimal.Decimal           `json:"closingCash"`
}

func toAccountAmountResponses(items []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(items))
	for i, it := range items {
		res[i] = AccountAmountResponse{AccountID: it.AccountID, Code: it.Code, Name: it.Name, Amount: it.NetAmount}
	}
	return res
}

// ToTrialBalanceResponse converts a domain trial balance.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	res := TrialBalanceResponse{
		AsOf:       r.AsOf.Format(DateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(r.Rows)),
		IsBalanced: r.IsBalanced,
	}
	for i, row := range r.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	res.Totals.Debit = r.TotalDebit
	res.Totals.Credit = r.TotalCredit
	return res
}

// ToIncomeStatementResponse converts a domain income statement.
func ToIncomeStatementResponse(r *domain.IncomeStatementReport) IncomeStatementResponse {
	res := IncomeStatementResponse{
		FromDate: r.From.Format(DateLayout),
		ToDate:   r.To.Format(DateLayout),
		Income:   toAccountAmountResponses(r.Income),
		Expenses: toAccountAmountResponses(r.Expenses),
	}
	res.Summary.TotalIncome = r.TotalIncome
	res.Summary.TotalExpenses = r.TotalExpense
	res.Summary.NetIncome = r.NetIncome
	return res
}

// ToBalanceSheetResponse converts a domain balance sheet.
func ToBalanceSheetResponse(r *domain.BalanceSheetReport) BalanceSheetResponse {
	res := BalanceSheetResponse{
		AsOf:            r.AsOf.Format(DateLayout),
		Assets:          toAccountAmountResponses(r.Assets),
		Liabilities:     toAccountAmountResponses(r.Liabilities),
		Equity:          toAccountAmountResponses(r.Equity),
		CurrentEarnings: r.CurrentEarnings,
		IsBalanced:      r.IsBalanced,
	}
	res.Summary.TotalAssets = r.TotalAssets
	res.Summary.TotalLiabilities = r.TotalLiabilities
	res.Summary.TotalEquity = r.TotalEquity
	return res
}

// ToCashFlowResponse converts a domain cash flow report.
func ToCashFlowResponse(r *domain.CashFlowReport) CashFlowResponse {
	res := CashFlowResponse{
		FromDate:    r.From.Format(DateLayout),
		ToDate:      r.To.Format(DateLayout),
		OpeningCash: r.OpeningCash,
		Sections:    make([]CashFlowSectionResponse, len(r.Sections)),
		NetChange:   r.NetChange,
		ClosingCash: r.ClosingCash,
	}
	for i, s := range r.Sections {
		res.Sections[i] = CashFlowSectionResponse{
			Category: string(s.Category),
			Items:    toAccountAmountResponses(s.Items),
			Total:    s.Total,
		}
	}
	return res
}
