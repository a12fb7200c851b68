package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
)

const (
	defaultPostMaxAttempts  = 3
	defaultPostRetryBackoff = 50 * time.Millisecond
	defaultPostLockTTL      = 10 * time.Second
)

// postingService posts draft entries into the ledger.
type postingService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	locker      portsrepo.EntryLocker
	lockTTL     time.Duration
	maxAttempts int
	backoff     time.Duration
	now         func() time.Time
}

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithRetryPolicy sets how many times a conflicting post is attempted and the first backoff delay.
// The delay doubles after every attempt.
func WithRetryPolicy(maxAttempts int, backoff time.Duration) PostingServiceOption {
	return func(s *postingService) {
		if maxAttempts >= 1 {
			s.maxAttempts = maxAttempts
		}
		if backoff >= 0 {
			s.backoff = backoff
		}
	}
}

// WithEntryLocker adds a cross-process lock taken around every posting attempt.
func WithEntryLocker(locker portsrepo.EntryLocker, ttl time.Duration) PostingServiceOption {
	return func(s *postingService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithPostingClock overrides the time source used for posted_at.
func WithPostingClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// NewPostingService creates the posting engine.
func NewPostingService(txManager portsrepo.TransactionManager, options ...PostingServiceOption) portssvc.PostingSvc {
	svc := &postingService{
		txManager:   txManager,
		lockTTL:     defaultPostLockTTL,
		maxAttempts: defaultPostMaxAttempts,
		backoff:     defaultPostRetryBackoff,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// PostEntry posts a draft entry. Concurrency conflicts retry the whole unit of work with exponential
// backoff; the last conflict is returned once attempts are exhausted.
func (s *postingService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	delay := s.backoff
	for attempt := 1; ; attempt++ {
		entry, err := s.postOnce(ctx, entryID, userID)
		if err == nil {
			s.LogInfo(ctx, "Journal entry posted",
				slog.String("entry_id", entryID),
				slog.String("entry_no", entry.EntryNo),
				slog.Int("lines", len(entry.Lines)),
				slog.Int("attempt", attempt))
			return entry, nil
		}

		if !apperrors.IsRetryable(err) || attempt >= s.maxAttempts {
			s.logFailure(ctx, err, "Failed to post journal entry",
				slog.String("entry_id", entryID),
				slog.Int("attempt", attempt))
			return nil, err
		}

		s.LogDebug(ctx, "Posting conflict, retrying",
			slog.String("entry_id", entryID),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, apperrors.NewStorageError("posting abandoned while waiting to retry", ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
}

// postOnce makes a single posting attempt under the optional entry lock.
func (s *postingService) postOnce(ctx context.Context, entryID, userID string) (*domain.JournalEntry, error) {
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, entryID, s.lockTTL)
		switch {
		case err == nil:
			defer func() {
				if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
					s.LogWarn(ctx, "Failed to release posting lock",
						slog.String("entry_id", entryID),
						slog.String("error", rerr.Error()))
				}
			}()
		case apperrors.IsRetryable(err):
			return nil, err
		default:
			// The database locks still serialise posting.
			s.LogWarn(ctx, "Posting lock unavailable, continuing without it",
				slog.String("entry_id", entryID),
				slog.String("error", err.Error()))
		}
	}

	var posted *domain.JournalEntry
	err := s.txManager.WithinTx(ctx, portsrepo.Serializable, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		entry, err := s.post(ctx, uow, entryID, userID)
		if err != nil {
			return err
		}
		posted = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

// post runs inside the unit of work. Every ledger row and the status change commit together.
func (s *postingService) post(ctx context.Context, uow portsrepo.UnitOfWork, entryID, userID string) (*domain.JournalEntry, error) {
	journals := uow.Journals()

	entry, err := journals.FindEntryByIDForUpdate(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted() {
		return nil, apperrors.NewAppError(apperrors.KindAlreadyPosted, "journal entry "+entry.EntryNo+" is already posted", nil)
	}

	lines, err := journals.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.NewAppError(apperrors.KindNoLines, "journal entry "+entry.EntryNo+" has no lines", nil)
	}
	if err := accounting.CheckBalanced(lines); err != nil {
		return nil, err
	}

	accountIDs := distinctAccountIDs(lines)
	locked, err := uow.Accounts().FindAccountsByIDsForUpdate(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.NewValidationError("journal line references a missing account",
				map[string]string{"accountID": id})
		}
	}

	ledger := uow.Ledger()
	for _, line := range lines {
		current, err := ledger.LatestBalance(ctx, line.AccountID)
		if err != nil {
			return nil, err
		}
		_, err = ledger.AppendLedgerRow(ctx, domain.LedgerRow{
			EntryID:     entry.EntryID,
			AccountID:   line.AccountID,
			EntryNo:     entry.EntryNo,
			EntryDate:   entry.EntryDate,
			VoucherType: entry.VoucherType,
			Particulars: accounting.Particulars(line.Narration, entry.Description),
			Debit:       line.Debit,
			Credit:      line.Credit,
			Balance:     accounting.NextBalance(current, line.Debit, line.Credit),
		})
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	if err := journals.MarkPosted(ctx, entryID, userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = &userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines
	return entry, nil
}

// distinctAccountIDs returns the accounts touched by lines in ascending order, the lock order.
func distinctAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	sort.Strings(ids)
	return ids
}
