package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ReportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db DBTX) *ReportingRepository {
	return &ReportingRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.ReportingRepository = (*ReportingRepository)(nil)

func (r *ReportingRepository) queryTotals(ctx context.Context, query string, args ...any) ([]domain.AccountTotal, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	totals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AccountTotal])
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountTotalSlice(totals), nil
}

// GetAccountTotals sums ledger movement per account for rows dated within [from, to].
func (r *ReportingRepository) GetAccountTotals(ctx context.Context, from, to *time.Time) ([]domain.AccountTotal, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS debit,
		       COALESCE(SUM(l.credit), 0) AS credit
		FROM accounts a
		JOIN ledger_rows l ON l.account_id = a.account_id
		WHERE ($1::date IS NULL OR l.entry_date >= $1::date)
		  AND ($2::date IS NULL OR l.entry_date <= $2::date)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	totals, err := r.queryTotals(ctx, query, from, to)
	if err != nil {
		return nil, mapError(err, "failed to aggregate account totals")
	}
	return totals, nil
}

// GetCashCounterTotals sums the non-cash lines of entries dated within [from, to] that touch a cash account.
func (r *ReportingRepository) GetCashCounterTotals(ctx context.Context, from, to time.Time) ([]domain.AccountTotal, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS debit,
		       COALESCE(SUM(l.credit), 0) AS credit
		FROM ledger_rows l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_date BETWEEN $1 AND $2
		  AND NOT a.is_cash
		  AND EXISTS (
		      SELECT 1
		      FROM ledger_rows c
		      JOIN accounts ca ON ca.account_id = c.account_id
		      WHERE c.entry_id = l.entry_id AND ca.is_cash
		  )
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	totals, err := r.queryTotals(ctx, query, from, to)
	if err != nil {
		return nil, mapError(err, "failed to aggregate cash counter totals")
	}
	return totals, nil
}

// GetCashBalanceBefore sums debit minus credit on cash accounts for rows dated before the given date.
func (r *ReportingRepository) GetCashBalanceBefore(ctx context.Context, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM ledger_rows l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE a.is_cash AND l.entry_date < $1;
	`
	var balance decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, before).Scan(&balance); err != nil {
		return decimal.Zero, mapError(err, "failed to compute opening cash balance")
	}
	return balance, nil
}
