package handlers_test

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func draftEntry(id string, status domain.EntryStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     id,
		EntryNo:     "PV-000007",
		EntryDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		VoucherType: domain.PaymentVoucher,
		Status:      status,
		Lines: []domain.JournalLine{
			{LineID: "l1", LineNo: 1, AccountID: "rent", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{LineID: "l2", LineNo: 2, AccountID: "cash", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	body := map[string]any{
		"entryDate":   "2024-03-01",
		"voucherType": "PAYMENT",
		"description": "March rent",
		"lines": []map[string]any{
			{"accountID": "rent", "debit": "100"},
			{"accountID": "cash", "credit": 100},
		},
	}
	suite.mockJournal.On("CreateDraftEntry", mock.Anything, mock.MatchedBy(func(req dto.CreateJournalEntryRequest) bool {
		return req.VoucherType == domain.PaymentVoucher && len(req.Lines) == 2 &&
			req.Lines[0].Debit.Equal(decimal.NewFromInt(100)) && req.Lines[1].Credit.Equal(decimal.NewFromInt(100))
	}), testUserID).Return(draftEntry("e-1", domain.Draft), nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.decodeData(w, &resp)
	suite.Equal("PV-000007", resp.EntryNo)
	suite.Equal("2024-03-01", resp.EntryDate)
	suite.True(resp.TotalDebit.Equal(resp.TotalCredit))
	suite.Len(resp.Lines, 2)
}

func (suite *HandlerTestSuite) TestCreateEntry_BindingErrors() {
	body := map[string]any{
		"entryDate":   "01-03-2024",
		"voucherType": "INVOICE",
		"lines":       []map[string]any{{"accountID": "rent", "debit": "-5"}},
	}

	w := suite.request(http.MethodPost, "/api/v1/journals", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	env := suite.decode(w)
	suite.Equal(apperrors.KindValidation, env.Error.Kind)
	suite.Contains(env.Error.Fields, "entryDate")
	suite.Contains(env.Error.Fields, "voucherType")
	suite.Equal("must be a non-negative amount", env.Error.Fields["lines[0].debit"])
}

func (suite *HandlerTestSuite) TestCreateEntry_ServiceFieldErrors() {
	suite.mockJournal.On("CreateDraftEntry", mock.Anything, mock.Anything, testUserID).
		Return(nil, apperrors.NewValidationError("invalid journal entry", map[string]string{
			"lines[1].accountID": "account does not exist",
		})).Once()

	w := suite.request(http.MethodPost, "/api/v1/journals", map[string]any{
		"entryDate":   "2024-03-01",
		"voucherType": "JOURNAL",
		"lines":       []map[string]any{{"accountID": "a", "debit": 1}, {"accountID": "ghost", "credit": 1}},
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	env := suite.decode(w)
	suite.Equal("invalid journal entry", env.Error.Message)
	suite.Equal("account does not exist", env.Error.Fields["lines[1].accountID"])
}

func (suite *HandlerTestSuite) TestListEntries() {
	suite.mockJournal.On("ListEntries", mock.Anything, mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
		return p.Limit == 20 && p.Offset == 0 && p.Status == domain.Posted && p.Search == "rent"
	})).Return([]domain.JournalEntry{*draftEntry("e-1", domain.Posted)}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/journals?status=P&search=rent", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListJournalEntriesResponse
	suite.decodeData(w, &resp)
	suite.Equal(20, resp.Limit)
	suite.Len(resp.Entries, 1)

	w = suite.request(http.MethodGet, "/api/v1/journals?status=X", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decode(w).Error.Fields, "status")

	w = suite.request(http.MethodGet, "/api/v1/journals?limit=1000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateEntry_PostedIsConflict() {
	suite.mockJournal.On("UpdateDraftEntry", mock.Anything, "e-1", mock.Anything, testUserID).
		Return(nil, apperrors.NewStateError("posted entries cannot be updated")).Once()

	w := suite.request(http.MethodPut, "/api/v1/journals/e-1", map[string]any{
		"entryDate":   "2024-03-01",
		"voucherType": "JOURNAL",
		"lines":       []map[string]any{{"accountID": "a", "debit": 1}},
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.KindStateConflict, suite.decode(w).Error.Kind)
}

func (suite *HandlerTestSuite) TestDeleteEntry_NotFound() {
	suite.mockJournal.On("DeleteDraftEntry", mock.Anything, "nope", testUserID).
		Return(apperrors.NewNotFoundError("journal entry nope: not found")).Once()

	w := suite.request(http.MethodDelete, "/api/v1/journals/nope", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestPostEntry_Success() {
	posted := draftEntry("e-1", domain.Posted)
	suite.mockPosting.On("PostEntry", mock.Anything, "e-1", testUserID).Return(posted, nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/journals/e-1/post", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.JournalEntryResponse
	env := suite.decodeData(w, &resp)
	suite.Equal("Journal entry posted", env.Message)
	suite.Equal(domain.Posted, resp.Status)
}

func (suite *HandlerTestSuite) TestPostEntry_ErrorMapping() {
	unbalanced := accounting.CheckBalanced([]domain.JournalLine{
		{Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: decimal.NewFromInt(90)},
	})
	suite.Require().Error(unbalanced)

	testCases := []struct {
		name       string
		err        error
		status     int
		kind       apperrors.Kind
		retryAfter string
	}{
		{"unbalanced", unbalanced, http.StatusUnprocessableEntity, apperrors.KindUnbalanced, ""},
		{"no lines", apperrors.NewAppError(apperrors.KindNoLines, "entry has no lines", nil), http.StatusUnprocessableEntity, apperrors.KindNoLines, ""},
		{"already posted", apperrors.NewAppError(apperrors.KindAlreadyPosted, "already posted", nil), http.StatusConflict, apperrors.KindAlreadyPosted, ""},
		{"not found", apperrors.NewNotFoundError("journal entry x: not found"), http.StatusNotFound, apperrors.KindNotFound, ""},
		{"conflict", apperrors.NewAppError(apperrors.KindConcurrencyConflict, "could not serialize access", nil), http.StatusConflict, apperrors.KindConcurrencyConflict, "1"},
		{"timeout", apperrors.NewStorageError("failed to post", context.DeadlineExceeded), http.StatusServiceUnavailable, apperrors.KindStorage, ""},
		{"storage", apperrors.NewStorageError("failed to post", context.Canceled), http.StatusInternalServerError, apperrors.KindStorage, ""},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockPosting.On("PostEntry", mock.Anything, "e-1", testUserID).Return(nil, tc.err).Once()

			w := suite.request(http.MethodPost, "/api/v1/journals/e-1/post", nil)

			suite.Equal(tc.status, w.Code)
			suite.Equal(tc.retryAfter, w.Header().Get("Retry-After"))
			env := suite.decode(w)
			suite.False(env.OK)
			suite.Equal(tc.kind, env.Error.Kind)
			if tc.kind == apperrors.KindUnbalanced {
				suite.Equal("100", env.Error.Fields["totalDebit"])
				suite.Equal("90", env.Error.Fields["totalCredit"])
			}
			if tc.kind == apperrors.KindStorage {
				suite.NotContains(env.Error.Message, "context")
			}
		})
	}
}
