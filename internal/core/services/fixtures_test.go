package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testUser = "user-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// books wires every service to a fresh in-memory store.
type books struct {
	repos     portsrepo.RepositoryProvider
	accounts  portssvc.AccountSvcFacade
	journals  portssvc.JournalSvcFacade
	posting   portssvc.PostingSvc
	ledger    portssvc.LedgerSvcFacade
	reporting portssvc.ReportingService
}

func newBooks(t *testing.T, postingOpts ...services.PostingServiceOption) *books {
	t.Helper()
	repos := memory.NewRepositoryProvider(memory.NewStore(), nil)
	return newBooksWithTx(repos, repos.TxManager, postingOpts...)
}

func newBooksWithTx(repos portsrepo.RepositoryProvider, tx portsrepo.TransactionManager, postingOpts ...services.PostingServiceOption) *books {
	return &books{
		repos:     repos,
		accounts:  services.NewAccountService(repos.AccountRepo, repos.TxManager),
		journals:  services.NewJournalService(repos.JournalRepo, repos.TxManager),
		posting:   services.NewPostingService(tx, postingOpts...),
		ledger:    services.NewLedgerService(repos.LedgerRepo, repos.JournalRepo, repos.AccountRepo),
		reporting: services.NewReportingService(repos.ReportingRepo),
	}
}

func (b *books) account(t *testing.T, name string, typ domain.AccountType, isCash bool) *domain.Account {
	t.Helper()
	acc, err := b.accounts.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Name:        name,
		AccountType: typ,
		IsCash:      isCash,
	}, testUser)
	require.NoError(t, err)
	return acc
}

func line(accountID, debit, credit string) dto.JournalLineRequest {
	return dto.JournalLineRequest{AccountID: accountID, Debit: dec(debit), Credit: dec(credit)}
}

func (b *books) draft(t *testing.T, date string, vt domain.VoucherType, description string, lines ...dto.JournalLineRequest) *domain.JournalEntry {
	t.Helper()
	entry, err := b.journals.CreateDraftEntry(context.Background(), dto.CreateJournalEntryRequest{
		EntryDate:   date,
		VoucherType: vt,
		Description: description,
		Lines:       lines,
	}, testUser)
	require.NoError(t, err)
	return entry
}

func (b *books) post(t *testing.T, entryID string) *domain.JournalEntry {
	t.Helper()
	entry, err := b.posting.PostEntry(context.Background(), entryID, testUser)
	require.NoError(t, err)
	return entry
}

func (b *books) ledgerRows(t *testing.T, accountID string) []domain.LedgerRow {
	t.Helper()
	rows, err := b.repos.LedgerRepo.ListLedgerRows(context.Background(), domain.LedgerFilter{AccountID: accountID})
	require.NoError(t, err)
	return rows
}

// faultyTx wraps a transaction manager and fails the n-th ledger append inside every unit of work.
type faultyTx struct {
	inner    portsrepo.TransactionManager
	failOnNo int
}

func (f *faultyTx) WithinTx(ctx context.Context, level portsrepo.IsolationLevel, fn func(context.Context, portsrepo.UnitOfWork) error) error {
	return f.inner.WithinTx(ctx, level, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return fn(ctx, &faultyUnitOfWork{UnitOfWork: uow, failOnNo: f.failOnNo})
	})
}

type faultyUnitOfWork struct {
	portsrepo.UnitOfWork
	failOnNo int
	appends  int
}

func (u *faultyUnitOfWork) Ledger() portsrepo.LedgerRepositoryFacade {
	return &faultyLedger{LedgerRepositoryFacade: u.UnitOfWork.Ledger(), uow: u}
}

type faultyLedger struct {
	portsrepo.LedgerRepositoryFacade
	uow *faultyUnitOfWork
}

func (l *faultyLedger) AppendLedgerRow(ctx context.Context, row domain.LedgerRow) (domain.LedgerRow, error) {
	l.uow.appends++
	if l.uow.appends == l.uow.failOnNo {
		return domain.LedgerRow{}, apperrors.NewStorageError("disk full", nil)
	}
	return l.LedgerRepositoryFacade.AppendLedgerRow(ctx, row)
}

// conflictingTx reports a serialization failure for the first `conflicts` units of work.
type conflictingTx struct {
	mu        sync.Mutex
	inner     portsrepo.TransactionManager
	conflicts int
	calls     int
}

func (c *conflictingTx) WithinTx(ctx context.Context, level portsrepo.IsolationLevel, fn func(context.Context, portsrepo.UnitOfWork) error) error {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()
	if call <= c.conflicts {
		return apperrors.NewAppError(apperrors.KindConcurrencyConflict, "could not serialize access", nil)
	}
	return c.inner.WithinTx(ctx, level, fn)
}

func (c *conflictingTx) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func fastRetry() services.PostingServiceOption {
	return services.WithRetryPolicy(3, time.Millisecond)
}
