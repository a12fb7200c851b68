// Package memory is an in-process implementation of the repository ports.
//
// Units of work are serialised by a single mutex and run against a private copy of the data that
// replaces the live copy on commit, so an aborted unit of work leaves nothing behind. It backs local
// runs without PostgreSQL and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
)

type state struct {
	accounts  map[string]domain.Account
	entries   map[string]domain.JournalEntry
	lines     map[string][]domain.JournalLine
	ledger    []domain.LedgerRow
	entrySeq  int64
	ledgerSeq int64
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		entries:  make(map[string]domain.JournalEntry),
		lines:    make(map[string][]domain.JournalLine),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:  make(map[string]domain.Account, len(s.accounts)),
		entries:   make(map[string]domain.JournalEntry, len(s.entries)),
		lines:     make(map[string][]domain.JournalLine, len(s.lines)),
		ledger:    make([]domain.LedgerRow, len(s.ledger)),
		entrySeq:  s.entrySeq,
		ledgerSeq: s.ledgerSeq,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]domain.JournalLine(nil), v...)
	}
	copy(c.ledger, s.ledger)
	return c
}

// Store holds all bookkeeping data in memory.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// handle routes repository calls either to a unit of work's private copy or, outside one, to the
// live data under the store lock.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) do(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.state)
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// WithinTx runs fn against a private copy of the data and publishes it when fn succeeds.
// The isolation level is ignored: units of work never overlap.
func (s *Store) WithinTx(ctx context.Context, _ portsrepo.IsolationLevel, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, &unitOfWork{h: handle{store: s, tx: snapshot}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	s.state = snapshot
	return nil
}

type unitOfWork struct {
	h handle
}

func (u *unitOfWork) Accounts() portsrepo.AccountRepositoryFacade { return &accountRepository{u.h} }
func (u *unitOfWork) Journals() portsrepo.JournalRepositoryFacade { return &journalRepository{u.h} }
func (u *unitOfWork) Ledger() portsrepo.LedgerRepositoryFacade    { return &ledgerRepository{u.h} }

// NewRepositoryProvider wires every repository port to store.
func NewRepositoryProvider(store *Store, locker portsrepo.EntryLocker) portsrepo.RepositoryProvider {
	h := handle{store: store}
	return portsrepo.RepositoryProvider{
		TxManager:     store,
		AccountRepo:   &accountRepository{h},
		JournalRepo:   &journalRepository{h},
		LedgerRepo:    &ledgerRepository{h},
		ReportingRepo: &reportingRepository{h},
		EntryLocker:   locker,
	}
}
