package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestGetLedger_ReturnsNextToken() {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	token := pagination.EncodeLedgerToken(day, 2)
	page := &portssvc.LedgerPage{
		Rows: []domain.LedgerRow{
			{LedgerID: 1, AccountID: "cash", EntryDate: day, Debit: decimal.NewFromInt(5), Credit: decimal.Zero, Balance: decimal.NewFromInt(5)},
			{LedgerID: 2, AccountID: "cash", EntryDate: day, Debit: decimal.NewFromInt(5), Credit: decimal.Zero, Balance: decimal.NewFromInt(10)},
		},
		NextToken: &token,
	}
	suite.mockLedger.On("GetLedger", mock.Anything, dto.ListLedgerParams{AccountID: "cash", Limit: 2}).Return(page, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/ledger?accountID=cash&limit=2", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListLedgerResponse
	suite.decodeData(w, &resp)
	suite.Require().Len(resp.Rows, 2)
	suite.Equal("2024-01-10", resp.Rows[1].EntryDate)
	suite.True(resp.Rows[1].Balance.Equal(decimal.NewFromInt(10)))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func (suite *HandlerTestSuite) TestGetLedger_BadTokenIsValidation() {
	suite.mockLedger.On("GetLedger", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewValidationError("invalid pagination token", map[string]string{"nextToken": "bad"})).Once()

	w := suite.request(http.MethodGet, "/api/v1/ledger?nextToken=zzz", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w).Error.Fields, "nextToken")
}

func (suite *HandlerTestSuite) TestGetOpeningBalance() {
	before := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.mockLedger.On("GetOpeningBalance", mock.Anything, (*string)(nil), before).Return(decimal.Zero, nil).Once()
	suite.mockLedger.On("GetOpeningBalance", mock.Anything, mock.MatchedBy(func(id *string) bool {
		return id != nil && *id == "cash"
	}), before).Return(decimal.NewFromInt(300), nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/ledger/opening-balance?before=2024-02-01", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/v1/ledger/opening-balance?before=2024-02-01&accountID=cash", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OpeningBalanceResponse
	suite.decodeData(w, &resp)
	suite.Equal("cash", resp.AccountID)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(300)))

	w = suite.request(http.MethodGet, "/api/v1/ledger/opening-balance", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("is required", suite.decode(w).Error.Fields["before"])
}

func (suite *HandlerTestSuite) TestGetAccountStatement() {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	statement := &domain.AccountStatement{
		Account:        domain.Account{AccountID: "cash", Code: "1001"},
		From:           &from,
		OpeningBalance: decimal.NewFromInt(100),
		TotalDebit:     decimal.NewFromInt(500),
		TotalCredit:    decimal.Zero,
		ClosingBalance: decimal.NewFromInt(600),
		Rows:           []domain.LedgerRow{},
	}
	suite.mockLedger.On("GetAccountStatement", mock.Anything, "cash", &from, (*time.Time)(nil)).Return(statement, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/ledger/statement/cash?from=2024-02-01", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountStatementResponse
	suite.decodeData(w, &resp)
	suite.Equal("2024-02-01", resp.From)
	suite.Empty(resp.To)
	suite.True(resp.ClosingBalance.Equal(decimal.NewFromInt(600)))
}

func (suite *HandlerTestSuite) TestGetLedgerRow() {
	voucher := &portssvc.Voucher{
		Row:   domain.LedgerRow{LedgerID: 7, EntryID: "e-1"},
		Entry: *draftEntry("e-1", domain.Posted),
	}
	suite.mockLedger.On("GetLedgerRow", mock.Anything, int64(7)).Return(voucher, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/ledger/7", nil)
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.VoucherResponse
	suite.decodeData(w, &resp)
	suite.Equal(int64(7), resp.Row.LedgerID)
	suite.Len(resp.Entry.Lines, 2)

	w = suite.request(http.MethodGet, "/api/v1/ledger/seven", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w).Error.Fields, "ledgerID")
}
