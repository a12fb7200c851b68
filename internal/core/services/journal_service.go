package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// journalService manages draft journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	txManager   portsrepo.TransactionManager
	now         func() time.Time
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalClock overrides the time source used for audit fields.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, txManager portsrepo.TransactionManager, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		txManager:   txManager,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// draft is a validated header plus lines ready to persist.
type draft struct {
	entryDate   time.Time
	voucherType domain.VoucherType
	description string
	lines       []domain.JournalLine
}

// validateDraft checks the header and lines and resolves every referenced account.
// All problems are reported together as field details.
func validateDraft(ctx context.Context, accounts portsrepo.AccountReader, req dto.CreateJournalEntryRequest) (*draft, error) {
	fields := map[string]string{}

	var entryDate time.Time
	if strings.TrimSpace(req.EntryDate) == "" {
		fields["entryDate"] = "is required"
	} else if d, err := time.Parse(dto.DateLayout, strings.TrimSpace(req.EntryDate)); err != nil {
		fields["entryDate"] = "must be a date in YYYY-MM-DD format"
	} else {
		entryDate = d
	}

	if !req.VoucherType.Valid() {
		fields["voucherType"] = "must be one of JOURNAL, PAYMENT, RECEIPT, CONTRA"
	}
	if len(req.Lines) == 0 {
		fields["lines"] = "at least one line is required"
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for i, l := range req.Lines {
		if strings.TrimSpace(l.AccountID) == "" {
			fields[fmt.Sprintf("lines[%d].accountID", i)] = "is required"
		} else {
			accountIDs = append(accountIDs, l.AccountID)
		}
		if msg := accounting.ValidateLineAmounts(l.Debit, l.Credit); msg != "" {
			fields[fmt.Sprintf("lines[%d]", i)] = msg
		}
	}

	if len(accountIDs) > 0 {
		found, err := accounts.FindAccountsByIDs(ctx, accountIDs)
		if err != nil {
			return nil, err
		}
		for i, l := range req.Lines {
			if l.AccountID == "" {
				continue
			}
			acc, ok := found[l.AccountID]
			switch {
			case !ok:
				fields[fmt.Sprintf("lines[%d].accountID", i)] = "account does not exist"
			case !acc.IsActive():
				fields[fmt.Sprintf("lines[%d].accountID", i)] = "account " + acc.Code + " is inactive"
			}
		}
	}

	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid journal entry", fields)
	}

	d := &draft{
		entryDate:   entryDate,
		voucherType: req.VoucherType,
		description: strings.TrimSpace(req.Description),
		lines:       make([]domain.JournalLine, len(req.Lines)),
	}
	for i, l := range req.Lines {
		d.lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Narration: strings.TrimSpace(l.Narration),
			Debit:     l.Debit,
			Credit:    l.Credit,
		}
	}
	return d, nil
}

func (s *journalService) CreateDraftEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		d, err := validateDraft(ctx, uow.Accounts(), req)
		if err != nil {
			return err
		}

		journals := uow.Journals()
		entryNo, err := journals.NextEntryNo(ctx, d.voucherType)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		entry = domain.JournalEntry{
			EntryID:     uuid.NewString(),
			EntryNo:     entryNo,
			EntryDate:   d.entryDate,
			VoucherType: d.voucherType,
			Description: d.description,
			Status:      domain.Draft,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if err := journals.SaveEntry(ctx, entry); err != nil {
			return err
		}
		for i := range d.lines {
			d.lines[i].EntryID = entry.EntryID
		}
		if err := journals.ReplaceLines(ctx, entry.EntryID, d.lines); err != nil {
			return err
		}
		entry.Lines = d.lines
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create draft entry", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_no", entry.EntryNo),
		slog.Int("lines", len(entry.Lines)))
	return &entry, nil
}

func (s *journalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		journals := uow.Journals()
		current, err := journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return apperrors.NewStateError("posted entries cannot be updated")
		}

		d, err := validateDraft(ctx, uow.Accounts(), dto.CreateJournalEntryRequest(req))
		if err != nil {
			return err
		}

		entry = *current
		entry.EntryDate = d.entryDate
		if d.voucherType != current.VoucherType {
			entry.EntryNo = accounting.ReprefixEntryNo(current.EntryNo, d.voucherType)
		}
		entry.VoucherType = d.voucherType
		entry.Description = d.description
		entry.LastUpdatedAt = s.now().UTC()
		entry.LastUpdatedBy = userID
		if err := journals.UpdateEntryHeader(ctx, entry); err != nil {
			return err
		}
		for i := range d.lines {
			d.lines[i].EntryID = entryID
		}
		if err := journals.ReplaceLines(ctx, entryID, d.lines); err != nil {
			return err
		}
		entry.Lines = d.lines
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update draft entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft journal entry updated", slog.String("entry_id", entryID))
	return &entry, nil
}

func (s *journalService) DeleteDraftEntry(ctx context.Context, entryID string, userID string) error {
	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		journals := uow.Journals()
		current, err := journals.FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if current.IsPosted() {
			return apperrors.NewStateError("posted entries cannot be deleted")
		}
		return journals.DeleteEntry(ctx, entryID)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete draft entry", slog.String("entry_id", entryID))
		return err
	}

	s.LogInfo(ctx, "Draft journal entry deleted",
		slog.String("entry_id", entryID),
		slog.String("user_id", userID))
	return nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get journal lines", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	from, err := parseDate("from", params.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", params.To)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.NewValidationError("invalid period", map[string]string{"to": "must not be before from"})
	}

	entries, err := s.journalRepo.ListEntries(ctx, domain.JournalFilter{
		From:        from,
		To:          to,
		Status:      params.Status,
		VoucherType: params.VoucherType,
		Search:      strings.TrimSpace(params.Search),
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, err
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	return entries, nil
}
