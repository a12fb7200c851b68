package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
)

type accountRepository struct {
	h handle
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var found *domain.Account
	err := r.h.do(func(st *state) error {
		acc, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + accountID + ": not found")
		}
		found = &acc
		return nil
	})
	return found, err
}

func (r *accountRepository) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	err := r.h.do(func(st *state) error {
		for _, id := range accountIDs {
			if acc, ok := st.accounts[id]; ok {
				result[id] = acc
			}
		}
		return nil
	})
	return result, err
}

func (r *accountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return r.FindAccountsByIDs(ctx, accountIDs)
}

func (r *accountRepository) ListAccounts(_ context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.h.do(func(st *state) error {
		for _, acc := range st.accounts {
			if filter.AccountType != "" && acc.AccountType != filter.AccountType {
				continue
			}
			if filter.Status != "" && acc.Status != filter.Status {
				continue
			}
			accounts = append(accounts, acc)
		}
		return nil
	})
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Level != accounts[j].Level {
			return accounts[i].Level < accounts[j].Level
		}
		return accounts[i].Code < accounts[j].Code
	})
	return accounts, err
}

func (r *accountRepository) ListCodesWithPrefix(_ context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.h.do(func(st *state) error {
		for _, acc := range st.accounts {
			if !strings.HasPrefix(acc.Code, prefix) {
				continue
			}
			codes = append(codes, acc.Code)
		}
		return nil
	})
	return codes, err
}

func (r *accountRepository) CountChildren(_ context.Context, accountID string) (int, error) {
	n := 0
	err := r.h.do(func(st *state) error {
		n = countChildren(st, accountID)
		return nil
	})
	return n, err
}

func countChildren(st *state, accountID string) int {
	n := 0
	for _, acc := range st.accounts {
		if acc.ParentAccountID == accountID {
			n++
		}
	}
	return n
}

func (r *accountRepository) IsReferenced(_ context.Context, accountID string) (bool, error) {
	referenced := false
	err := r.h.do(func(st *state) error {
		referenced = isReferenced(st, accountID)
		return nil
	})
	return referenced, err
}

func isReferenced(st *state, accountID string) bool {
	for _, lines := range st.lines {
		for _, l := range lines {
			if l.AccountID == accountID {
				return true
			}
		}
	}
	for _, row := range st.ledger {
		if row.AccountID == accountID {
			return true
		}
	}
	return false
}

func (r *accountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	return r.h.do(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return apperrors.NewAppError(apperrors.KindDuplicate, "account "+account.AccountID+" already exists", nil)
		}
		for _, acc := range st.accounts {
			if acc.Code == account.Code {
				return apperrors.NewAppError(apperrors.KindDuplicate, "account code '"+account.Code+"' already exists", nil)
			}
		}
		if account.ParentAccountID != "" {
			if _, ok := st.accounts[account.ParentAccountID]; !ok {
				return apperrors.NewValidationError("parent account does not exist",
					map[string]string{"parentAccountID": account.ParentAccountID})
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *accountRepository) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.h.do(func(st *state) error {
		current, ok := st.accounts[account.AccountID]
		if !ok {
			return apperrors.NewNotFoundError("account " + account.AccountID + " not found for update")
		}
		if account.ParentAccountID != "" {
			if _, ok := st.accounts[account.ParentAccountID]; !ok {
				return apperrors.NewValidationError("parent account does not exist",
					map[string]string{"parentAccountID": account.ParentAccountID})
			}
		}
		current.Name = account.Name
		current.ParentAccountID = account.ParentAccountID
		current.Level = account.Level
		current.Status = account.Status
		current.IsCash = account.IsCash
		current.Description = account.Description
		current.LastUpdatedAt = account.LastUpdatedAt
		current.LastUpdatedBy = account.LastUpdatedBy
		st.accounts[account.AccountID] = current
		return nil
	})
}

func (r *accountRepository) ShiftSubtreeLevels(_ context.Context, accountID string, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.h.do(func(st *state) error {
		queue := []string{accountID}
		for len(queue) > 0 {
			parent := queue[0]
			queue = queue[1:]
			for id, acc := range st.accounts {
				if acc.ParentAccountID == parent {
					acc.Level += delta
					st.accounts[id] = acc
					queue = append(queue, id)
				}
			}
		}
		return nil
	})
}

func (r *accountRepository) DeleteAccount(_ context.Context, accountID string) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.accounts[accountID]; !ok {
			return apperrors.NewNotFoundError("account " + accountID + " not found")
		}
		if countChildren(st, accountID) > 0 || isReferenced(st, accountID) {
			return apperrors.NewStateError("account " + accountID + " is still referenced")
		}
		delete(st.accounts, accountID)
		return nil
	})
}
