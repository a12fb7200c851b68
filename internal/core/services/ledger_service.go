package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// ledgerService reads the posted ledger projection. It never writes.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerReader
	journalRepo portsrepo.JournalReader
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, journalRepo portsrepo.JournalReader, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetLedger(ctx context.Context, params dto.ListLedgerParams) (*portssvc.LedgerPage, error) {
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

	filter := domain.LedgerFilter{
		AccountID: params.AccountID,
		EntryID:   params.EntryID,
		From:      from,
		To:        to,
	}
	if params.NextToken != "" {
		date, id, err := pagination.DecodeLedgerToken(params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid pagination token", map[string]string{"nextToken": err.Error()})
		}
		filter.After = &domain.LedgerCursor{EntryDate: date, LedgerID: id}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	// One extra row tells whether another page exists.
	filter.Limit = limit + 1

	rows, err := s.ledgerRepo.ListLedgerRows(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger rows", slog.String("account_id", params.AccountID))
		return nil, err
	}

	page := &portssvc.LedgerPage{Rows: rows}
	if len(rows) > limit {
		page.Rows = rows[:limit]
		last := page.Rows[limit-1]
		token := pagination.EncodeLedgerToken(last.EntryDate, last.LedgerID)
		page.NextToken = &token
	}
	if page.Rows == nil {
		page.Rows = []domain.LedgerRow{}
	}
	return page, nil
}

func (s *ledgerService) GetOpeningBalance(ctx context.Context, accountID *string, before time.Time) (decimal.Decimal, error) {
	id := ""
	if accountID != nil {
		id = *accountID
		if _, err := s.accountRepo.FindAccountByID(ctx, id); err != nil {
			return decimal.Zero, err
		}
	}
	balance, err := s.ledgerRepo.OpeningBalance(ctx, id, domain.DateOnly(before))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute opening balance", slog.String("account_id", id))
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerService) GetLedgerRow(ctx context.Context, ledgerID int64) (*portssvc.Voucher, error) {
	row, err := s.ledgerRepo.FindLedgerRowByID(ctx, ledgerID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get ledger row", slog.Int64("ledger_id", ledgerID))
		return nil, err
	}
	entry, err := s.journalRepo.FindEntryByID(ctx, row.EntryID)
	if err != nil {
		s.LogError(ctx, err, "Ledger row points at a missing entry",
			slog.Int64("ledger_id", ledgerID),
			slog.String("entry_id", row.EntryID))
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, row.EntryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &portssvc.Voucher{Row: *row, Entry: *entry}, nil
}

func (s *ledgerService) GetAccountStatement(ctx context.Context, accountID string, from, to *time.Time) (*domain.AccountStatement, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.NewValidationError("invalid period", map[string]string{"to": "must not be before from"})
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get account for statement", slog.String("account_id", accountID))
		return nil, err
	}

	opening := decimal.Zero
	if from != nil {
		opening, err = s.ledgerRepo.OpeningBalance(ctx, accountID, *from)
		if err != nil {
			return nil, err
		}
	}

	rows, err := s.ledgerRepo.ListLedgerRows(ctx, domain.LedgerFilter{AccountID: accountID, From: from, To: to})
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement rows", slog.String("account_id", accountID))
		return nil, err
	}
	if rows == nil {
		rows = []domain.LedgerRow{}
	}

	statement := &domain.AccountStatement{
		Account:        *account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
		Rows:           rows,
	}
	for _, r := range rows {
		statement.TotalDebit = statement.TotalDebit.Add(r.Debit)
		statement.TotalCredit = statement.TotalCredit.Add(r.Credit)
	}
	statement.ClosingBalance = opening.Add(statement.TotalDebit).Sub(statement.TotalCredit)
	return statement, nil
}
