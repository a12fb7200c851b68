package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/models"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/SscSPs/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, entry_no, entry_date, voucher_type, description, status, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_no, account_id, narration, debit, credit`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(db DBTX) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func (r *PgxJournalRepository) findEntry(ctx context.Context, query, entryID string) (*domain.JournalEntry, error) {
	rows, err := r.DB.Query(ctx, query, entryID)
	if err != nil {
		return nil, mapError(err, "failed to query journal entry "+entryID)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "journal entry "+entryID)
	}
	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindEntryByID retrieves an entry header by its identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID)
}

// FindEntryByIDForUpdate retrieves an entry header and locks its row until the transaction ends.
func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID)
}

// FindLinesByEntryID retrieves the lines of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = $1 ORDER BY line_no;`, entryID)
	if err != nil {
		return nil, mapError(err, "failed to query journal lines")
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalLine])
	if err != nil {
		return nil, mapError(err, "failed to scan journal lines")
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

// ListEntries retrieves entry headers matching the filter, newest first.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.JournalFilter) ([]domain.JournalEntry, error) {
	var (
		conds []string
		args  []any
	)
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.VoucherType != "" {
		args = append(args, string(filter.VoucherType))
		conds = append(conds, fmt.Sprintf("voucher_type = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(entry_no ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY entry_date DESC, entry_no DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to list journal entries")
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapError(err, "failed to scan journal entries")
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}

// NextEntryNo allocates the next entry number from the shared sequence.
// Sequence values are never rolled back, so numbers of aborted drafts leave gaps.
func (r *PgxJournalRepository) NextEntryNo(ctx context.Context, voucherType domain.VoucherType) (string, error) {
	var seq int64
	if err := r.DB.QueryRow(ctx, `SELECT nextval('journal_entry_no_seq');`).Scan(&seq); err != nil {
		return "", mapError(err, "failed to allocate entry number")
	}
	return accounting.FormatEntryNo(voucherType, seq), nil
}

// SaveEntry persists a new entry header.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.DB.Exec(ctx, query,
		m.EntryID, m.EntryNo, m.EntryDate, m.VoucherType, m.Description, m.Status, m.PostedAt, m.PostedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "failed to insert journal entry "+m.EntryID)
	}
	return nil
}

// UpdateEntryHeader updates date, voucher type, description and audit fields of a draft.
func (r *PgxJournalRepository) UpdateEntryHeader(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_no = $2, entry_date = $3, voucher_type = $4, description = $5, last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $1 AND status = 'D';
	`
	cmdTag, err := r.DB.Exec(ctx, query, m.EntryID, m.EntryNo, m.EntryDate, m.VoucherType, m.Description, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapError(err, "failed to update journal entry "+m.EntryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft journal entry " + m.EntryID + " not found for update")
	}
	return nil
}

// ReplaceLines deletes every line of the entry and inserts lines in order.
func (r *PgxJournalRepository) ReplaceLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return mapError(err, "failed to delete journal lines")
	}
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range lines {
		m := mapping.ToModelJournalLine(l)
		batch.Queue(query, m.LineID, entryID, m.LineNo, m.AccountID, m.Narration, m.Debit, m.Credit)
	}

	br := r.DB.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapError(err, "failed to insert journal lines")
	}
	return nil
}

// DeleteEntry removes the entry's lines and then the entry.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return mapError(err, "failed to delete journal lines")
	}
	cmdTag, err := r.DB.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'D';`, entryID)
	if err != nil {
		return mapError(err, "failed to delete journal entry "+entryID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("draft journal entry " + entryID + " not found for delete")
	}
	return nil
}

// MarkPosted flips the entry status to Posted.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'P', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'D';
	`
	cmdTag, err := r.DB.Exec(ctx, query, entryID, at, userID)
	if err != nil {
		return mapError(err, "failed to mark journal entry "+entryID+" posted")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewAppError(apperrors.KindAlreadyPosted, "journal entry "+entryID+" is already posted", apperrors.ErrAlreadyPosted)
	}
	return nil
}
