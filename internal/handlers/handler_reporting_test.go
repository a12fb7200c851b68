package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestTrialBalance_DefaultsToToday() {
	report := &domain.TrialBalanceReport{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, IsBalanced: true}
	suite.mockReporting.On("TrialBalance", mock.Anything, mock.MatchedBy(func(asOf time.Time) bool {
		return time.Since(asOf) < time.Minute
	})).Return(report, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/reports/trial-balance", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.decodeData(w, &resp)
	suite.True(resp.IsBalanced)
}

func (suite *HandlerTestSuite) TestBalanceSheet_AsOf() {
	asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	report := &domain.BalanceSheetReport{AsOf: asOf, IsBalanced: true}
	suite.mockReporting.On("BalanceSheet", mock.Anything, asOf).Return(report, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2024-06-30", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=yesterday", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w).Error.Fields, "asOf")
}

func (suite *HandlerTestSuite) TestIncomeStatement_RequiresPeriod() {
	w := suite.request(http.MethodGet, "/api/v1/reports/income-statement?from=2024-06-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("is required", suite.decode(w).Error.Fields["to"])
}

func (suite *HandlerTestSuite) TestIncomeStatement_InvertedPeriod() {
	from := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.mockReporting.On("IncomeStatement", mock.Anything, from, to).
		Return(nil, apperrors.NewValidationError("invalid period", map[string]string{"to": "must not be before from"})).Once()

	w := suite.request(http.MethodGet, "/api/v1/reports/income-statement?from=2024-06-30&to=2024-06-01", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("must not be before from", suite.decode(w).Error.Fields["to"])
}

func (suite *HandlerTestSuite) TestCashFlow() {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	report := &domain.CashFlowReport{
		From:        from,
		To:          to,
		OpeningCash: decimal.NewFromInt(5000),
		Sections: []domain.CashFlowSection{
			{Category: domain.OperatingActivities, Items: []domain.AccountAmount{}, Total: decimal.NewFromInt(900)},
		},
		NetChange:   decimal.NewFromInt(900),
		ClosingCash: decimal.NewFromInt(5900),
	}
	suite.mockReporting.On("CashFlow", mock.Anything, from, to).Return(report, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/reports/cash-flow?from=2024-06-01&to=2024-06-30", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CashFlowResponse
	suite.decodeData(w, &resp)
	suite.True(resp.ClosingCash.Equal(decimal.NewFromInt(5900)))
	suite.Require().Len(resp.Sections, 1)
}
