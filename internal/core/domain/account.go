package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in chart-of-accounts order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Income, Expense}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// CodeDigit is the leading digit of auto-generated root account codes.
func (t AccountType) CodeDigit() int {
	for i, at := range AccountTypes {
		if at == t {
			return i + 1
		}
	}
	return 9
}

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "A"
	AccountInactive AccountStatus = "I"
)

// Account represents a node in the chart of accounts.
type Account struct {
	AccountID       string        `json:"accountID"`
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	AccountType     AccountType   `json:"accountType"`
	ParentAccountID string        `json:"parentAccountID,omitempty"` // empty for root accounts
	Level           int           `json:"level"`                     // 1 for root accounts
	Status          AccountStatus `json:"status"`
	IsCash          bool          `json:"isCash"`
	Description     string        `json:"description"`
	AuditFields
}

// IsActive reports whether the account accepts new journal lines.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentAccountID == ""
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	AccountType AccountType
	Status      AccountStatus
}

// AccountTreeNode is an account positioned in the depth-first tree order.
type AccountTreeNode struct {
	Account
	HasChildren bool `json:"hasChildren"`
}
