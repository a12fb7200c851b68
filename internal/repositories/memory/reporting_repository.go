package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type reportingRepository struct {
	h handle
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func totalsByAccount(st *state, keep func(row domain.LedgerRow) bool) []domain.AccountTotal {
	byID := make(map[string]*domain.AccountTotal)
	for _, row := range st.ledger {
		if !keep(row) {
			continue
		}
		t, ok := byID[row.AccountID]
		if !ok {
			acc := st.accounts[row.AccountID]
			t = &domain.AccountTotal{
				AccountID:   acc.AccountID,
				Code:        acc.Code,
				Name:        acc.Name,
				AccountType: acc.AccountType,
				Debit:       decimal.Zero,
				Credit:      decimal.Zero,
			}
			byID[row.AccountID] = t
		}
		t.Debit = t.Debit.Add(row.Debit)
		t.Credit = t.Credit.Add(row.Credit)
	}

	totals := make([]domain.AccountTotal, 0, len(byID))
	for _, t := range byID {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Code < totals[j].Code })
	return totals
}

func (r *reportingRepository) GetAccountTotals(_ context.Context, from, to *time.Time) ([]domain.AccountTotal, error) {
	var totals []domain.AccountTotal
	err := r.h.do(func(st *state) error {
		totals = totalsByAccount(st, func(row domain.LedgerRow) bool { return inRange(row.EntryDate, from, to) })
		return nil
	})
	return totals, err
}

func (r *reportingRepository) GetCashCounterTotals(_ context.Context, from, to time.Time) ([]domain.AccountTotal, error) {
	var totals []domain.AccountTotal
	err := r.h.do(func(st *state) error {
		touchesCash := make(map[string]bool)
		for _, row := range st.ledger {
			if st.accounts[row.AccountID].IsCash {
				touchesCash[row.EntryID] = true
			}
		}
		totals = totalsByAccount(st, func(row domain.LedgerRow) bool {
			return inRange(row.EntryDate, &from, &to) && touchesCash[row.EntryID] && !st.accounts[row.AccountID].IsCash
		})
		return nil
	})
	return totals, err
}

func (r *reportingRepository) GetCashBalanceBefore(_ context.Context, before time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.h.do(func(st *state) error {
		for _, row := range st.ledger {
			if st.accounts[row.AccountID].IsCash && row.EntryDate.Before(before) {
				balance = balance.Add(row.Debit).Sub(row.Credit)
			}
		}
		return nil
	})
	return balance, err
}
