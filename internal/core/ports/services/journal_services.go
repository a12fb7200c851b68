package services

import (
	"context"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves a journal entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entry headers, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error)
}

// JournalWriterSvc defines write operations for draft journal entries
type JournalWriterSvc interface {
	// CreateDraftEntry validates and persists a new draft entry with its lines.
	CreateDraftEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// UpdateDraftEntry replaces the header and lines of a draft entry.
	UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteDraftEntry removes a draft entry and its lines.
	DeleteDraftEntry(ctx context.Context, entryID string, userID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}

// PostingSvc turns a balanced draft into ledger rows.
type PostingSvc interface {
	// PostEntry posts a draft entry atomically and returns it with status Posted.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)
}
