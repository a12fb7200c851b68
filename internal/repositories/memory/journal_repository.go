package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
)

type journalRepository struct {
	h handle
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func (r *journalRepository) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	var found *domain.JournalEntry
	err := r.h.do(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFoundError("journal entry " + entryID + ": not found")
		}
		found = &e
		return nil
	})
	return found, err
}

// FindEntryByIDForUpdate needs no row lock: units of work never overlap.
func (r *journalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, entryID)
}

func (r *journalRepository) FindLinesByEntryID(_ context.Context, entryID string) ([]domain.JournalLine, error) {
	var lines []domain.JournalLine
	err := r.h.do(func(st *state) error {
		lines = append([]domain.JournalLine(nil), st.lines[entryID]...)
		return nil
	})
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].LineNo < lines[j].LineNo })
	return lines, err
}

func (r *journalRepository) ListEntries(_ context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var entries []domain.JournalEntry
	err := r.h.do(func(st *state) error {
		for _, e := range st.entries {
			if filter.From != nil && e.EntryDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.EntryDate.After(*filter.To) {
				continue
			}
			if filter.Status != "" && e.Status != filter.Status {
				continue
			}
			if filter.VoucherType != "" && e.VoucherType != filter.VoucherType {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(e.EntryNo), search) &&
				!strings.Contains(strings.ToLower(e.Description), search) {
				continue
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.After(entries[j].EntryDate)
		}
		return entries[i].EntryNo > entries[j].EntryNo
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(entries) {
			return []domain.JournalEntry{}, nil
		}
		entries = entries[filter.Offset:]
	}
	if filter.Limit > 0 && len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}
	return entries, nil
}

func (r *journalRepository) NextEntryNo(_ context.Context, voucherType domain.VoucherType) (string, error) {
	var no string
	err := r.h.do(func(st *state) error {
		st.entrySeq++
		no = accounting.FormatEntryNo(voucherType, st.entrySeq)
		return nil
	})
	return no, err
}

func (r *journalRepository) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.h.do(func(st *state) error {
		if _, exists := st.entries[entry.EntryID]; exists {
			return apperrors.NewAppError(apperrors.KindDuplicate, "journal entry "+entry.EntryID+" already exists", nil)
		}
		for _, e := range st.entries {
			if e.EntryNo == entry.EntryNo {
				return apperrors.NewAppError(apperrors.KindDuplicate, "entry number "+entry.EntryNo+" already exists", nil)
			}
		}
		entry.Lines = nil
		st.entries[entry.EntryID] = entry
		return nil
	})
}

func (r *journalRepository) UpdateEntryHeader(_ context.Context, entry domain.JournalEntry) error {
	return r.h.do(func(st *state) error {
		current, ok := st.entries[entry.EntryID]
		if !ok || current.Status != domain.Draft {
			return apperrors.NewNotFoundError("draft journal entry " + entry.EntryID + " not found for update")
		}
		current.EntryNo = entry.EntryNo
		current.EntryDate = entry.EntryDate
		current.VoucherType = entry.VoucherType
		current.Description = entry.Description
		current.LastUpdatedAt = entry.LastUpdatedAt
		current.LastUpdatedBy = entry.LastUpdatedBy
		st.entries[entry.EntryID] = current
		return nil
	})
}

func (r *journalRepository) ReplaceLines(_ context.Context, entryID string, lines []domain.JournalLine) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.entries[entryID]; !ok {
			return apperrors.NewValidationError("journal entry does not exist", map[string]string{"entryID": entryID})
		}
		for _, l := range lines {
			if _, ok := st.accounts[l.AccountID]; !ok {
				return apperrors.NewValidationError("account does not exist", map[string]string{"accountID": l.AccountID})
			}
		}
		replaced := make([]domain.JournalLine, len(lines))
		for i, l := range lines {
			l.EntryID = entryID
			replaced[i] = l
		}
		st.lines[entryID] = replaced
		return nil
	})
}

func (r *journalRepository) DeleteEntry(_ context.Context, entryID string) error {
	return r.h.do(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok || e.Status != domain.Draft {
			return apperrors.NewNotFoundError("draft journal entry " + entryID + " not found for delete")
		}
		delete(st.lines, entryID)
		delete(st.entries, entryID)
		return nil
	})
}

func (r *journalRepository) MarkPosted(_ context.Context, entryID string, userID string, at time.Time) error {
	return r.h.do(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFoundError("journal entry " + entryID + ": not found")
		}
		if e.Status != domain.Draft {
			return apperrors.NewAppError(apperrors.KindAlreadyPosted, "journal entry "+entryID+" is already posted", nil)
		}
		e.Status = domain.Posted
		e.PostedAt = &at
		e.PostedBy = &userID
		e.LastUpdatedAt = at
		e.LastUpdatedBy = userID
		st.entries[entryID] = e
		return nil
	})
}
