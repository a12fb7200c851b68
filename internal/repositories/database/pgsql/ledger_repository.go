package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ledgerSelect = `
	SELECT l.ledger_id, l.entry_id, l.account_id, a.code AS account_code, a.name AS account_name,
	       l.entry_no, l.entry_date, l.voucher_type, l.particulars, l.debit, l.credit, l.balance, l.created_at
	FROM ledger_rows l
	JOIN accounts a ON a.account_id = l.account_id`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository over the append-only ledger.
func newPgxLedgerRepository(db DBTX) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// LatestBalance returns the balance of the most recently written ledger row for the account.
func (r *PgxLedgerRepository) LatestBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT balance FROM ledger_rows WHERE account_id = $1 ORDER BY ledger_id DESC LIMIT 1;`
	var balance decimal.Decimal
	err := r.DB.QueryRow(ctx, query, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, mapError(err, "failed to read latest balance for account "+accountID)
	}
	return balance, nil
}

// AppendLedgerRow inserts a row and returns it with its assigned ledger id and timestamp.
func (r *PgxLedgerRepository) AppendLedgerRow(ctx context.Context, row domain.LedgerRow) (domain.LedgerRow, error) {
	query := `
		INSERT INTO ledger_rows (entry_id, account_id, entry_no, entry_date, voucher_type, particulars, debit, credit, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ledger_id, created_at;
	`
	err := r.DB.QueryRow(ctx, query,
		row.EntryID, row.AccountID, row.EntryNo, row.EntryDate, string(row.VoucherType), row.Particulars,
		row.Debit, row.Credit, row.Balance,
	).Scan(&row.LedgerID, &row.CreatedAt)
	if err != nil {
		return domain.LedgerRow{}, mapError(err, "failed to insert ledger row")
	}
	return row, nil
}

// ListLedgerRows retrieves rows ordered by entry date then ledger id.
func (r *PgxLedgerRepository) ListLedgerRows(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerRow, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conds = append(conds, fmt.Sprintf("l.account_id = $%d", len(args)))
	}
	if filter.EntryID != "" {
		args = append(args, filter.EntryID)
		conds = append(conds, fmt.Sprintf("l.entry_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("l.entry_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("l.entry_date <= $%d", len(args)))
	}
	if filter.After != nil {
		args = append(args, filter.After.EntryDate, filter.After.LedgerID)
		conds = append(conds, fmt.Sprintf("(l.entry_date, l.ledger_id) > ($%d, $%d)", len(args)-1, len(args)))
	}

	query := ledgerSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY l.entry_date, l.ledger_id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list ledger rows")
	}
	ledger, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerRow])
	if err != nil {
		return nil, mapError(err, "failed to scan ledger rows")
	}
	return mapping.ToDomainLedgerRowSlice(ledger), nil
}

// FindLedgerRowByID retrieves a single ledger row.
func (r *PgxLedgerRepository) FindLedgerRowByID(ctx context.Context, ledgerID int64) (*domain.LedgerRow, error) {
	rows, err := r.DB.Query(ctx, ledgerSelect+" WHERE l.ledger_id = $1;", ledgerID)
	if err != nil {
		return nil, mapError(err, "failed to query ledger row")
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.LedgerRow])
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("ledger row %d", ledgerID))
	}
	row := mapping.ToDomainLedgerRow(m)
	return &row, nil
}

// OpeningBalance sums debit minus credit of rows dated strictly before the given date.
func (r *PgxLedgerRepository) OpeningBalance(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM ledger_rows
		WHERE entry_date < $1 AND ($2::text = '' OR account_id = $2::text);
	`
	var balance decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, before, accountID).Scan(&balance); err != nil {
		return decimal.Zero, mapError(err, "failed to compute opening balance")
	}
	return balance, nil
}
