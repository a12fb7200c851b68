package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotal is the debit and credit movement of one account over a period.
type AccountTotal struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net is debit minus credit.
func (t AccountTotal) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}

// TrialBalanceRow represents a single row in a trial balance report
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every account with a balance as of a date.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport represents a profit and loss report for a period.
type IncomeStatementReport struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetIncome    decimal.Decimal `json:"netIncome"`
}

// BalanceSheetReport represents a balance sheet report
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	CurrentEarnings  decimal.Decimal `json:"currentEarnings"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// CashFlowCategory groups cash movements by the nature of the counter account.
type CashFlowCategory string

const (
	OperatingActivities CashFlowCategory = "OPERATING"
	InvestingActivities CashFlowCategory = "INVESTING"
	FinancingActivities CashFlowCategory = "FINANCING"
)

// CategoryFor maps the type of a non-cash counter account to a cash flow category.
func CategoryFor(t AccountType) CashFlowCategory {
	switch t {
	case Asset:
		return InvestingActivities
	case Liability, Equity:
		return FinancingActivities
	default:
		return OperatingActivities
	}
}

// CashFlowSection is one category of the cash flow report.
type CashFlowSection struct {
	Category CashFlowCategory `json:"category"`
	Items    []AccountAmount  `json:"items"`
	Total    decimal.Decimal  `json:"total"`
}

// CashFlowReport explains the change in cash and bank balances over a period.
type CashFlowReport struct {
	From        time.Time         `json:"from"`
	To          time.Time         `json:"to"`
	OpeningCash decimal.Decimal   `json:"openingCash"`
	Sections    []CashFlowSection `json:"sections"`
	NetChange   decimal.Decimal   `json:"netChange"`
	ClosingCash decimal.Decimal   `json:"closingCash"`
}
