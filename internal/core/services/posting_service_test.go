package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/core/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEntryLocker is a mock type for the EntryLocker interface
type MockEntryLocker struct {
	mock.Mock
}

func (m *MockEntryLocker) Acquire(ctx context.Context, entryID string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, entryID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

func TestPostEntry_CapitalIntroduction(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)

	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Owner capital",
		line(cash.AccountID, "1000", "0"),
		line(capital.AccountID, "0", "1000"),
	)
	assert.Equal(t, "RV-000001", entry.EntryNo)

	posted := b.post(t, entry.EntryID)
	assert.Equal(t, domain.Posted, posted.Status)
	require.NotNil(t, posted.PostedAt)
	require.NotNil(t, posted.PostedBy)
	assert.Equal(t, testUser, *posted.PostedBy)

	cashRows := b.ledgerRows(t, cash.AccountID)
	require.Len(t, cashRows, 1)
	assert.True(t, cashRows[0].Balance.Equal(dec("1000")))
	assert.Equal(t, "Owner capital", cashRows[0].Particulars)
	assert.Equal(t, entry.EntryNo, cashRows[0].EntryNo)

	capitalRows := b.ledgerRows(t, capital.AccountID)
	require.Len(t, capitalRows, 1)
	assert.True(t, capitalRows[0].Balance.Equal(dec("-1000")))

	stored, err := b.journals.GetEntry(context.Background(), entry.EntryID)
	require.NoError(t, err)
	assert.True(t, stored.IsPosted())
}

func TestPostEntry_RunningBalanceContinuity(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	sales := b.account(t, "Sales", domain.Income, false)
	rent := b.account(t, "Rent", domain.Expense, false)

	first := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Cash sale",
		line(cash.AccountID, "500.25", "0"), line(sales.AccountID, "0", "500.25"))
	second := b.draft(t, "2024-04-02", domain.PaymentVoucher, "Rent paid",
		line(rent.AccountID, "200", "0"), line(cash.AccountID, "0", "200"))
	third := b.draft(t, "2024-04-03", domain.ReceiptVoucher, "Cash sale",
		line(cash.AccountID, "99.75", "0"), line(sales.AccountID, "0", "99.75"))

	b.post(t, first.EntryID)
	b.post(t, second.EntryID)
	b.post(t, third.EntryID)

	rows := b.ledgerRows(t, cash.AccountID)
	require.Len(t, rows, 3)
	prev := dec("0")
	for _, r := range rows {
		assert.True(t, r.Balance.Equal(prev.Add(r.Debit).Sub(r.Credit)), "row %d breaks continuity", r.LedgerID)
		prev = r.Balance
	}
	assert.True(t, prev.Equal(dec("400")))
}

func TestPostEntry_SameAccountTwiceInOneEntry(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	bank := b.account(t, "Bank", domain.Asset, true)

	entry := b.draft(t, "2024-04-01", domain.ContraVoucher, "Split deposit",
		line(bank.AccountID, "60", "0"),
		line(bank.AccountID, "40", "0"),
		line(cash.AccountID, "0", "100"),
	)
	b.post(t, entry.EntryID)

	rows := b.ledgerRows(t, bank.AccountID)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Balance.Equal(dec("60")))
	assert.True(t, rows[1].Balance.Equal(dec("100")))
}

func TestPostEntry_Unbalanced(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	sales := b.account(t, "Sales", domain.Income, false)

	entry := b.draft(t, "2024-04-01", domain.JournalVoucher, "Typo",
		line(cash.AccountID, "100", "0"), line(sales.AccountID, "0", "90"))

	_, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnbalanced)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "100", apperrors.FieldsOf(err)["totalDebit"])
	assert.Equal(t, "90", apperrors.FieldsOf(err)["totalCredit"])

	assert.Empty(t, b.ledgerRows(t, ""))
	stored, err := b.journals.GetEntry(context.Background(), entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.Draft, stored.Status)
}

func TestPostEntry_WithinTolerance(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	sales := b.account(t, "Sales", domain.Income, false)

	entry := b.draft(t, "2024-04-01", domain.JournalVoucher, "Rounding",
		line(cash.AccountID, "100.0005", "0"), line(sales.AccountID, "0", "100"))

	posted := b.post(t, entry.EntryID)
	assert.Equal(t, domain.Posted, posted.Status)
}

func TestPostEntry_NotFound(t *testing.T) {
	b := newBooks(t)
	_, err := b.posting.PostEntry(context.Background(), "missing", testUser)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostEntry_NoLines(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	entry := domain.JournalEntry{
		EntryID:     "empty-entry",
		EntryNo:     "JV-000900",
		EntryDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		VoucherType: domain.JournalVoucher,
		Status:      domain.Draft,
	}
	require.NoError(t, b.repos.JournalRepo.SaveEntry(ctx, entry))

	_, err := b.posting.PostEntry(ctx, entry.EntryID, testUser)
	assert.ErrorIs(t, err, apperrors.ErrNoLines)
	assert.Equal(t, apperrors.KindNoLines, apperrors.KindOf(err))
}

func TestPostEntry_AlreadyPosted(t *testing.T) {
	b := newBooks(t)
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))
	b.post(t, entry.EntryID)

	_, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPosted)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Len(t, b.ledgerRows(t, ""), 2)
}

func TestPostEntry_FailureMidwayLeavesNothingBehind(t *testing.T) {
	repos := newBooks(t).repos
	b := newBooksWithTx(repos, &faultyTx{inner: repos.TxManager, failOnNo: 2})
	cash := b.account(t, "Cash", domain.Asset, true)
	bank := b.account(t, "Bank", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)

	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "70", "0"),
		line(bank.AccountID, "30", "0"),
		line(capital.AccountID, "0", "100"),
	)

	_, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	assert.Empty(t, b.ledgerRows(t, ""), "no ledger row may survive a failed post")
	stored, err := b.journals.GetEntry(context.Background(), entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, domain.Draft, stored.Status)
	assert.Nil(t, stored.PostedAt)

	// The same entry posts cleanly once the fault is gone.
	healthy := newBooksWithTx(repos, repos.TxManager)
	healthy.post(t, entry.EntryID)
	assert.Len(t, healthy.ledgerRows(t, ""), 3)
}

func TestPostEntry_ConcurrentPostsProduceOneSetOfRows(t *testing.T) {
	b := newBooks(t, fastRetry())
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		errs      []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			errs = append(errs, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range errs {
		assert.ErrorIs(t, err, apperrors.ErrAlreadyPosted)
	}
	assert.Len(t, b.ledgerRows(t, ""), 2)
}

func TestPostEntry_RetriesConcurrencyConflicts(t *testing.T) {
	repos := newBooks(t).repos
	tx := &conflictingTx{inner: repos.TxManager, conflicts: 2}
	b := newBooksWithTx(repos, tx, fastRetry())
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	posted, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, posted.Status)
	assert.Equal(t, 3, tx.Calls())
}

func TestPostEntry_GivesUpAfterMaxAttempts(t *testing.T) {
	repos := newBooks(t).repos
	tx := &conflictingTx{inner: repos.TxManager, conflicts: 10}
	b := newBooksWithTx(repos, tx, fastRetry())
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	_, err := b.posting.PostEntry(context.Background(), entry.EntryID, testUser)
	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, 3, tx.Calls())
	assert.Empty(t, b.ledgerRows(t, ""))
}

func TestPostEntry_CancelledWhileBackingOff(t *testing.T) {
	repos := newBooks(t).repos
	tx := &conflictingTx{inner: repos.TxManager, conflicts: 10}
	b := newBooksWithTx(repos, tx, services.WithRetryPolicy(5, time.Hour))
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := b.posting.PostEntry(ctx, entry.EntryID, testUser)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.True(t, apperrors.IsTimeout(err))
	assert.Equal(t, 1, tx.Calls())
}

func TestPostEntry_HeldLockIsRetried(t *testing.T) {
	locker := new(MockEntryLocker)
	b := newBooks(t, fastRetry())
	b.posting = services.NewPostingService(b.repos.TxManager, fastRetry(), services.WithEntryLocker(locker, time.Second))
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	released := false
	release := func(context.Context) error { released = true; return nil }
	held := apperrors.NewAppError(apperrors.KindConcurrencyConflict, "held", nil)
	locker.On("Acquire", mock.Anything, entry.EntryID, time.Second).Return(nil, held).Once()
	locker.On("Acquire", mock.Anything, entry.EntryID, time.Second).Return(release, nil).Once()

	b.post(t, entry.EntryID)
	assert.True(t, released)
	locker.AssertExpectations(t)
}

func TestPostEntry_UnreachableLockIsIgnored(t *testing.T) {
	locker := new(MockEntryLocker)
	b := newBooks(t)
	b.posting = services.NewPostingService(b.repos.TxManager, services.WithEntryLocker(locker, time.Second))
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))

	locker.On("Acquire", mock.Anything, entry.EntryID, time.Second).
		Return(nil, apperrors.NewStorageError("redis down", errors.New("connection refused"))).Once()

	posted := b.post(t, entry.EntryID)
	assert.Equal(t, domain.Posted, posted.Status)
	locker.AssertExpectations(t)
}

func TestPostedEntriesAreImmutable(t *testing.T) {
	b := newBooks(t)
	ctx := context.Background()
	cash := b.account(t, "Cash", domain.Asset, true)
	capital := b.account(t, "Capital", domain.Equity, false)
	entry := b.draft(t, "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))
	b.post(t, entry.EntryID)

	_, err := b.journals.UpdateDraftEntry(ctx, entry.EntryID, dto.UpdateJournalEntryRequest{
		EntryDate:   "2024-04-02",
		VoucherType: domain.ReceiptVoucher,
		Lines:       []dto.JournalLineRequest{line(cash.AccountID, "20", "0"), line(capital.AccountID, "0", "20")},
	}, testUser)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Contains(t, err.Error(), "posted entries cannot be updated")

	err = b.journals.DeleteDraftEntry(ctx, entry.EntryID, testUser)
	assert.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Contains(t, err.Error(), "posted entries cannot be deleted")

	stored, err := b.journals.GetEntry(ctx, entry.EntryID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assert.True(t, stored.Lines[0].Debit.Equal(dec("10")))
}
