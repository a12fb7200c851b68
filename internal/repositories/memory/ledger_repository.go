package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	h handle
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) LatestBalance(_ context.Context, accountID string) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.h.do(func(st *state) error {
		for i := len(st.ledger) - 1; i >= 0; i-- {
			if st.ledger[i].AccountID == accountID {
				balance = st.ledger[i].Balance
				return nil
			}
		}
		return nil
	})
	return balance, err
}

func (r *ledgerRepository) AppendLedgerRow(_ context.Context, row domain.LedgerRow) (domain.LedgerRow, error) {
	err := r.h.do(func(st *state) error {
		if _, ok := st.entries[row.EntryID]; !ok {
			return apperrors.NewValidationError("journal entry does not exist", map[string]string{"entryID": row.EntryID})
		}
		if _, ok := st.accounts[row.AccountID]; !ok {
			return apperrors.NewValidationError("account does not exist", map[string]string{"accountID": row.AccountID})
		}
		st.ledgerSeq++
		row.LedgerID = st.ledgerSeq
		row.CreatedAt = r.h.store.now().UTC()
		row.AccountCode, row.AccountName = "", ""
		st.ledger = append(st.ledger, row)
		return nil
	})
	if err != nil {
		return domain.LedgerRow{}, err
	}
	return row, nil
}

func withAccount(st *state, row domain.LedgerRow) domain.LedgerRow {
	if acc, ok := st.accounts[row.AccountID]; ok {
		row.AccountCode = acc.Code
		row.AccountName = acc.Name
	}
	return row
}

func (r *ledgerRepository) ListLedgerRows(_ context.Context, filter domain.LedgerFilter) ([]domain.LedgerRow, error) {
	var rows []domain.LedgerRow
	err := r.h.do(func(st *state) error {
		for _, row := range st.ledger {
			if filter.AccountID != "" && row.AccountID != filter.AccountID {
				continue
			}
			if filter.EntryID != "" && row.EntryID != filter.EntryID {
				continue
			}
			if filter.From != nil && row.EntryDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && row.EntryDate.After(*filter.To) {
				continue
			}
			rows = append(rows, withAccount(st, row))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].EntryDate.Equal(rows[j].EntryDate) {
			return rows[i].EntryDate.Before(rows[j].EntryDate)
		}
		return rows[i].LedgerID < rows[j].LedgerID
	})

	if filter.After != nil {
		cut := sort.Search(len(rows), func(i int) bool {
			if !rows[i].EntryDate.Equal(filter.After.EntryDate) {
				return rows[i].EntryDate.After(filter.After.EntryDate)
			}
			return rows[i].LedgerID > filter.After.LedgerID
		})
		rows = rows[cut:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

func (r *ledgerRepository) FindLedgerRowByID(_ context.Context, ledgerID int64) (*domain.LedgerRow, error) {
	var found *domain.LedgerRow
	err := r.h.do(func(st *state) error {
		for _, row := range st.ledger {
			if row.LedgerID == ledgerID {
				row = withAccount(st, row)
				found = &row
				return nil
			}
		}
		return apperrors.NewNotFoundError(fmt.Sprintf("ledger row %d: not found", ledgerID))
	})
	return found, err
}

func (r *ledgerRepository) OpeningBalance(_ context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := r.h.do(func(st *state) error {
		for _, row := range st.ledger {
			if accountID != "" && row.AccountID != accountID {
				continue
			}
			if row.EntryDate.Before(before) {
				balance = balance.Add(row.Debit).Sub(row.Credit)
			}
		}
		return nil
	})
	return balance, err
}
