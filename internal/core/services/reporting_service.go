package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(repo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: repo}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(accounting.BalanceTolerance)
}

func checkPeriod(from, to time.Time) error {
	if to.Before(from) {
		return apperrors.NewValidationError("invalid period", map[string]string{"to": "must not be before from"})
	}
	return nil
}

func amountFor(t domain.AccountTotal) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID: t.AccountID,
		Code:      t.Code,
		Name:      t.Name,
		NetAmount: accounting.NormalBalance(t.AccountType, t.Debit, t.Credit),
	}
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(totals)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, t := range totals {
		net := t.Net()
		if net.IsZero() {
			continue
		}
		row := domain.TrialBalanceRow{
			AccountID:   t.AccountID,
			Code:        t.Code,
			AccountName: t.Name,
			AccountType: t.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if net.IsPositive() {
			row.Debit = net
		} else {
			row.Credit = net.Neg()
		}
		report.TotalDebit = report.TotalDebit.Add(row.Debit)
		report.TotalCredit = report.TotalCredit.Add(row.Credit)
		report.Rows = append(report.Rows, row)
	}
	report.IsBalanced = withinTolerance(report.TotalDebit, report.TotalCredit)

	s.LogInfo(ctx, "Trial balance report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("row_count", len(report.Rows)))
	return report, nil
}

// IncomeStatement generates an income statement for a specific period
func (s *reportingService) IncomeStatement(ctx context.Context, from, to time.Time) (*domain.IncomeStatementReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}

	totals, err := s.reportingRepo.GetAccountTotals(ctx, &from, &to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, err
	}

	report := &domain.IncomeStatementReport{
		From:         from,
		To:           to,
		Income:       []domain.AccountAmount{},
		Expenses:     []domain.AccountAmount{},
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, t := range totals {
		switch t.AccountType {
		case domain.Income:
			a := amountFor(t)
			report.Income = append(report.Income, a)
			report.TotalIncome = report.TotalIncome.Add(a.NetAmount)
		case domain.Expense:
			a := amountFor(t)
			report.Expenses = append(report.Expenses, a)
			report.TotalExpense = report.TotalExpense.Add(a.NetAmount)
		}
	}
	report.NetIncome = report.TotalIncome.Sub(report.TotalExpense)

	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)),
		slog.Int("income_accounts", len(report.Income)),
		slog.Int("expense_accounts", len(report.Expenses)))
	return report, nil
}

// BalanceSheet generates a balance sheet report as of a specific date
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	totals, err := s.reportingRepo.GetAccountTotals(ctx, nil, &asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("asOf", asOf.Format(time.DateOnly)))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           []domain.AccountAmount{},
		Liabilities:      []domain.AccountAmount{},
		Equity:           []domain.AccountAmount{},
		CurrentEarnings:  decimal.Zero,
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, t := range totals {
		a := amountFor(t)
		switch t.AccountType {
		case domain.Asset:
			report.Assets = append(report.Assets, a)
			report.TotalAssets = report.TotalAssets.Add(a.NetAmount)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, a)
			report.TotalLiabilities = report.TotalLiabilities.Add(a.NetAmount)
		case domain.Equity:
			report.Equity = append(report.Equity, a)
			report.TotalEquity = report.TotalEquity.Add(a.NetAmount)
		case domain.Income:
			report.CurrentEarnings = report.CurrentEarnings.Add(a.NetAmount)
		case domain.Expense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(a.NetAmount)
		}
	}
	report.TotalEquity = report.TotalEquity.Add(report.CurrentEarnings)
	report.IsBalanced = withinTolerance(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))

	s.LogInfo(ctx, "Balance sheet report generated successfully",
		slog.String("asOf", asOf.Format(time.DateOnly)),
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	return report, nil
}

// CashFlow explains the movement of cash accounts over a period
func (s *reportingService) CashFlow(ctx context.Context, from, to time.Time) (*domain.CashFlowReport, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if err := checkPeriod(from, to); err != nil {
		return nil, err
	}

	opening, err := s.reportingRepo.GetCashBalanceBefore(ctx, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve opening cash", slog.String("from", from.Format(time.DateOnly)))
		return nil, err
	}
	counters, err := s.reportingRepo.GetCashCounterTotals(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve cash flow data",
			slog.String("from", from.Format(time.DateOnly)),
			slog.String("to", to.Format(time.DateOnly)))
		return nil, err
	}

	order := []domain.CashFlowCategory{domain.OperatingActivities, domain.InvestingActivities, domain.FinancingActivities}
	sections := make(map[domain.CashFlowCategory]*domain.CashFlowSection, len(order))
	for _, c := range order {
		sections[c] = &domain.CashFlowSection{Category: c, Items: []domain.AccountAmount{}, Total: decimal.Zero}
	}

	net := decimal.Zero
	for _, t := range counters {
		// Cash moves opposite to its counter account: a credit to revenue is cash coming in.
		amount := t.Credit.Sub(t.Debit)
		if amount.IsZero() {
			continue
		}
		sec := sections[domain.CategoryFor(t.AccountType)]
		sec.Items = append(sec.Items, domain.AccountAmount{AccountID: t.AccountID, Code: t.Code, Name: t.Name, NetAmount: amount})
		sec.Total = sec.Total.Add(amount)
		net = net.Add(amount)
	}

	report := &domain.CashFlowReport{
		From:        from,
		To:          to,
		OpeningCash: opening,
		Sections:    make([]domain.CashFlowSection, 0, len(order)),
		NetChange:   net,
		ClosingCash: opening.Add(net),
	}
	for _, c := range order {
		report.Sections = append(report.Sections, *sections[c])
	}

	s.LogInfo(ctx, "Cash flow report generated successfully",
		slog.String("from", from.Format(time.DateOnly)),
		slog.String("to", to.Format(time.DateOnly)))
	return report, nil
}
