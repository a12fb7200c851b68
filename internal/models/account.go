package models

// Account is a row of the accounts table.
type Account struct {
	AccountID       string  `db:"account_id"`
	Code            string  `db:"code"`
	Name            string  `db:"name"`
	AccountType     string  `db:"account_type"`
	ParentAccountID *string `db:"parent_account_id"` // Nullable
	Level           int     `db:"level"`
	Status          string  `db:"status"`
	IsCash          bool    `db:"is_cash"`
	Description     *string `db:"description"` // Nullable
	AuditFields
}
