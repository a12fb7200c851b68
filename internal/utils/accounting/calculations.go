package accounting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance absorbs rounding in user supplied amounts when comparing debit and credit totals.
var BalanceTolerance = decimal.RequireFromString("0.001")

// SumLines returns the debit and credit totals of lines.
func SumLines(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// CheckBalanced fails with an Unbalanced error when the totals differ by more than BalanceTolerance.
func CheckBalanced(lines []domain.JournalLine) error {
	debit, credit := SumLines(lines)
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		e := apperrors.NewAppError(apperrors.KindUnbalanced,
			fmt.Sprintf("total debit (%s) and credit (%s) must be equal", debit.StringFixed(2), credit.StringFixed(2)),
			apperrors.ErrUnbalanced)
		e.Fields = map[string]string{
			"totalDebit":  debit.String(),
			"totalCredit": credit.String(),
		}
		return e
	}
	return nil
}

// NextBalance computes the running balance after a movement. Debits increase it.
func NextBalance(current, debit, credit decimal.Decimal) decimal.Decimal {
	return current.Add(debit).Sub(credit)
}

// AmountScale is the number of decimal places stored for an amount.
const AmountScale = 4

// ValidateLineAmounts checks that a line has non-negative amounts on exactly one side, with no more
// than AmountScale decimal places. It returns a field message, empty when the line is valid.
func ValidateLineAmounts(debit, credit decimal.Decimal) string {
	switch {
	case debit.IsNegative() || credit.IsNegative():
		return "debit and credit must not be negative"
	case !debit.Equal(debit.Truncate(AmountScale)) || !credit.Equal(credit.Truncate(AmountScale)):
		return fmt.Sprintf("amounts may have at most %d decimal places", AmountScale)
	case debit.IsZero() && credit.IsZero():
		return "either debit or credit must be greater than zero"
	case !debit.IsZero() && !credit.IsZero():
		return "a line cannot carry both a debit and a credit"
	}
	return ""
}

// Particulars picks the ledger text for a line, falling back to the entry description.
func Particulars(narration, description string) string {
	if s := strings.TrimSpace(narration); s != "" {
		return s
	}
	return description
}

// NormalBalance returns the balance of an account in its natural sign:
// debit minus credit for assets and expenses, credit minus debit otherwise.
func NormalBalance(accountType domain.AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit)
	default:
		return credit.Sub(debit)
	}
}

// AccountCodePrefix is the part shared by every generated code under parentCode, or under the root
// of accountType when parentCode is empty.
func AccountCodePrefix(parentCode string, accountType domain.AccountType) string {
	if parentCode != "" {
		return parentCode + "."
	}
	return strconv.Itoa(accountType.CodeDigit())
}

// NextAccountCode generates a code for a new account.
// Root accounts get the type digit followed by a three digit counter ("1001"); children get the parent
// code, a dot and a two digit counter ("1001.01"). The counter is one past the highest numeric suffix
// among existingCodes carrying the same prefix, so codes entered by hand for other types or parents
// are skipped too.
func NextAccountCode(parentCode string, accountType domain.AccountType, existingCodes []string) string {
	prefix := AccountCodePrefix(parentCode, accountType)
	width := 3
	if parentCode != "" {
		width = 2
	}

	highest := 0
	for _, code := range existingCodes {
		if !strings.HasPrefix(code, prefix) {
			continue
		}
		n, err := strconv.Atoi(code[len(prefix):])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, highest+1)
}

// OrderAccountTree returns accounts root first, depth first, with siblings ordered by code.
// Accounts whose parent is not in the input are treated as roots.
func OrderAccountTree(accounts []domain.Account) []domain.AccountTreeNode {
	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.AccountID] = true
	}

	children := make(map[string][]domain.Account)
	var roots []domain.Account
	for _, a := range accounts {
		if a.ParentAccountID == "" || !known[a.ParentAccountID] {
			roots = append(roots, a)
			continue
		}
		children[a.ParentAccountID] = append(children[a.ParentAccountID], a)
	}

	byCode := func(s []domain.Account) {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Code < s[j].Code })
	}
	byCode(roots)
	for k := range children {
		byCode(children[k])
	}

	ordered := make([]domain.AccountTreeNode, 0, len(accounts))
	var walk func(a domain.Account)
	walk = func(a domain.Account) {
		ordered = append(ordered, domain.AccountTreeNode{Account: a, HasChildren: len(children[a.AccountID]) > 0})
		for _, c := range children[a.AccountID] {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return ordered
}

// FormatEntryNo renders an entry number from its voucher prefix and sequence value.
func FormatEntryNo(voucherType domain.VoucherType, seq int64) string {
	return fmt.Sprintf("%s-%06d", voucherType.Prefix(), seq)
}

// ReprefixEntryNo swaps the voucher prefix of entryNo and keeps its sequence part.
func ReprefixEntryNo(entryNo string, voucherType domain.VoucherType) string {
	_, seq, found := strings.Cut(entryNo, "-")
	if !found {
		return entryNo
	}
	return voucherType.Prefix() + "-" + seq
}
