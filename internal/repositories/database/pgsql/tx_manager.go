package pgsql

import (
	"context"
	"errors"
	"log/slog"

	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTxManager opens units of work on a connection pool.
type PgxTxManager struct {
	pool *pgxpool.Pool
}

func newPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

func pgxIsoLevel(level portsrepo.IsolationLevel) pgx.TxIsoLevel {
	switch level {
	case portsrepo.Serializable:
		return pgx.Serializable
	default:
		return pgx.ReadCommitted
	}
}

// WithinTx runs fn in a single transaction.
func (m *PgxTxManager) WithinTx(ctx context.Context, level portsrepo.IsolationLevel, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgxIsoLevel(level)})
	if err != nil {
		return mapError(err, "failed to begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The request context may already be done; rollback must still reach the server.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Error("failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newUnitOfWork(tx)); err != nil {
		return mapError(err, "transaction aborted")
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	committed = true
	return nil
}

// pgxUnitOfWork binds repositories to one open transaction.
type pgxUnitOfWork struct {
	accounts *PgxAccountRepository
	journals *PgxJournalRepository
	ledger   *PgxLedgerRepository
}

func newUnitOfWork(tx pgx.Tx) *pgxUnitOfWork {
	return &pgxUnitOfWork{
		accounts: newPgxAccountRepository(tx),
		journals: newPgxJournalRepository(tx),
		ledger:   newPgxLedgerRepository(tx),
	}
}

func (u *pgxUnitOfWork) Accounts() portsrepo.AccountRepositoryFacade { return u.accounts }
func (u *pgxUnitOfWork) Journals() portsrepo.JournalRepositoryFacade { return u.journals }
func (u *pgxUnitOfWork) Ledger() portsrepo.LedgerRepositoryFacade    { return u.ledger }
