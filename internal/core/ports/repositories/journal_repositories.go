package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID retrieves an entry header by its identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of an entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves entry headers matching the filter, newest first.
	ListEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// NextEntryNo allocates the next human readable entry number for a voucher type.
	NextEntryNo(ctx context.Context, voucherType domain.VoucherType) (string, error)

	// SaveEntry persists a new entry header.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntryHeader updates number, date, voucher type, description and audit fields of a draft.
	UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceLines deletes every line of the entry and inserts lines in order.
	ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalLine) error

	// DeleteEntry removes the entry's lines and then the entry.
	DeleteEntry(ctx context.Context, entryID string) error

	// MarkPosted flips the entry status to Posted.
	MarkPosted(ctx context.Context, entryID string, userID string, at time.Time) error
}

// JournalTransactionSupport defines row locking used inside a unit of work
type JournalTransactionSupport interface {
	// FindEntryByIDForUpdate retrieves an entry header and locks its row.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalTransactionSupport
}
