package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, code, name, account_type, parent_account_id, level, status, is_cash,
	description, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db DBTX) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	rows, err := r.DB.Query(ctx, query, accountID)
	if err != nil {
		return nil, mapError(err, "failed to query account "+accountID)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, mapError(err, "account "+accountID)
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "failed to query accounts by ids")
	}
	for _, a := range accounts {
		result[a.AccountID] = a
	}
	return result, nil
}

// FindAccountsByIDsForUpdate selects accounts and locks them in ascending id order.
// A fixed lock order keeps concurrent posts touching the same accounts from deadlocking.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	result := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "failed to lock accounts")
	}
	for _, a := range accounts {
		result[a.AccountID] = a
	}
	return result, nil
}

// ListAccounts retrieves accounts ordered by level then code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AccountType != "" {
		args = append(args, string(filter.AccountType))
		conds = append(conds, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM accounts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY level, code;"

	accounts, err := r.queryAccounts(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list accounts")
	}
	return accounts, nil
}

// ListCodesWithPrefix returns every account code starting with prefix.
func (r *PgxAccountRepository) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT code FROM accounts WHERE left(code, length($1)) = $1;`, prefix)
	if err != nil {
		return nil, mapError(err, "failed to query sibling codes")
	}
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan sibling codes")
	}
	return codes, nil
}

// CountChildren returns the number of direct children of an account.
func (r *PgxAccountRepository) CountChildren(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_account_id = $1;`, accountID).Scan(&n)
	if err != nil {
		return 0, mapError(err, "failed to count child accounts")
	}
	return n, nil
}

// IsReferenced reports whether any journal line or ledger row points at the account.
func (r *PgxAccountRepository) IsReferenced(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1)
		    OR EXISTS (SELECT 1 FROM ledger_rows WHERE account_id = $1);
	`
	var referenced bool
	if err := r.DB.QueryRow(ctx, query, accountID).Scan(&referenced); err != nil {
		return false, mapError(err, "failed to check account references")
	}
	return referenced, nil
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID, m.Code, m.Name, m.AccountType, m.ParentAccountID, m.Level, m.Status, m.IsCash,
		m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return apperrors.NewAppError(apperrors.KindDuplicate, "account code '"+m.Code+"' already exists", err)
		}
		return mapError(err, "failed to insert account")
	}
	return nil
}

// UpdateAccount updates an existing account's details, parent and level.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, parent_account_id = $3, level = $4, status = $5, is_cash = $6, description = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE account_id = $1;
	`
	cmdTag, err := r.DB.Exec(ctx, query,
		m.AccountID, m.Name, m.ParentAccountID, m.Level, m.Status, m.IsCash, m.Description,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to update account "+m.AccountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + m.AccountID + " not found for update")
	}
	return nil
}

// ShiftSubtreeLevels adds delta to the level of every descendant of accountID.
func (r *PgxAccountRepository) ShiftSubtreeLevels(ctx context.Context, accountID string, delta int) error {
	if delta == 0 {
		return nil
	}
	query := `
		WITH RECURSIVE subtree AS (
			SELECT account_id FROM accounts WHERE parent_account_id = $1
			UNION ALL
			SELECT a.account_id FROM accounts a JOIN subtree s ON a.parent_account_id = s.account_id
		)
		UPDATE accounts SET level = level + $2
		WHERE account_id IN (SELECT account_id FROM subtree);
	`
	if _, err := r.DB.Exec(ctx, query, accountID, delta); err != nil {
		return mapError(err, "failed to update descendant levels")
	}
	return nil
}

// DeleteAccount removes an account.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	cmdTag, err := r.DB.Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return apperrors.NewStateError("account " + accountID + " is still referenced")
		}
		return mapError(err, "failed to delete account "+accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return nil
}
