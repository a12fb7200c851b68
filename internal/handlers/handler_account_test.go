package handlers_test

import (
	"net/http"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Name: "Cash in hand", AccountType: domain.Asset, IsCash: true}
	created := &domain.Account{AccountID: "acc-1", Code: "1001", Name: req.Name, AccountType: domain.Asset,
		Level: 1, Status: domain.AccountActive, IsCash: true}
	suite.mockAccount.On("CreateAccount", mock.Anything, req, testUserID).Return(created, nil).Once()

	w := suite.request(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.AccountResponse
	env := suite.decodeData(w, &body)
	suite.Equal("Account created", env.Message)
	suite.Equal("1001", body.Code)
	suite.True(body.IsCash)
}

func (suite *HandlerTestSuite) TestCreateAccount_BindingErrorsListFields() {
	w := suite.request(http.MethodPost, "/api/v1/accounts", map[string]any{"accountType": "PLANET"})

	suite.Equal(http.StatusBadRequest, w.Code)
	env := suite.decode(w)
	suite.False(env.OK)
	suite.Equal(apperrors.KindValidation, env.Error.Kind)
	suite.Equal("is required", env.Error.Fields["name"])
	suite.Contains(env.Error.Fields["accountType"], "must be one of")
	suite.mockAccount.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	req := dto.CreateAccountRequest{Code: "1001", Name: "Cash", AccountType: domain.Asset}
	suite.mockAccount.On("CreateAccount", mock.Anything, req, testUserID).
		Return(nil, apperrors.NewAppError(apperrors.KindDuplicate, "account code '1001' already exists", nil)).Once()

	w := suite.request(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusConflict, w.Code)
	env := suite.decode(w)
	suite.Equal(apperrors.KindDuplicate, env.Error.Kind)
	suite.Equal("account code '1001' already exists", env.Error.Message)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccount.On("GetAccountByID", mock.Anything, "missing").
		Return(nil, apperrors.NewNotFoundError("account missing: not found")).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.KindNotFound, suite.decode(w).Error.Kind)
}

func (suite *HandlerTestSuite) TestGetAccountTree_NotShadowedByID() {
	nodes := []domain.AccountTreeNode{
		{Account: domain.Account{AccountID: "a", Code: "1001", Level: 1}, HasChildren: true},
		{Account: domain.Account{AccountID: "b", Code: "1001.01", Level: 2, ParentAccountID: "a"}},
	}
	suite.mockAccount.On("GetAccountTree", mock.Anything).Return(nodes, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts/tree", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.AccountTreeNodeResponse
	suite.decodeData(w, &body)
	suite.Require().Len(body, 2)
	suite.True(body[0].HasChildren)
	suite.Equal(2, body[1].Level)
}

func (suite *HandlerTestSuite) TestListAccounts_PassesFilters() {
	params := dto.ListAccountsParams{AccountType: domain.Expense, Status: domain.AccountActive}
	suite.mockAccount.On("ListAccounts", mock.Anything, params).Return([]domain.Account{}, nil).Once()

	w := suite.request(http.MethodGet, "/api/v1/accounts?accountType=EXPENSE&status=A", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body []dto.AccountResponse
	suite.decodeData(w, &body)
	suite.Empty(body)
}

func (suite *HandlerTestSuite) TestUpdateAccount_CycleIsConflict() {
	parent := "child"
	req := dto.UpdateAccountRequest{ParentAccountID: &parent}
	suite.mockAccount.On("UpdateAccount", mock.Anything, "root", req, testUserID).
		Return(nil, apperrors.NewStateError("an account cannot move under its own descendant")).Once()

	w := suite.request(http.MethodPut, "/api/v1/accounts/root", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.KindStateConflict, suite.decode(w).Error.Kind)
}

func (suite *HandlerTestSuite) TestDeleteAccount() {
	suite.mockAccount.On("DeleteAccount", mock.Anything, "acc-1", testUserID).Return(nil).Once()
	suite.mockAccount.On("DeleteAccount", mock.Anything, "acc-2", testUserID).
		Return(apperrors.NewStateError("account acc-2 is referenced by journal lines")).Once()

	w := suite.request(http.MethodDelete, "/api/v1/accounts/acc-1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(suite.decode(w).OK)

	w = suite.request(http.MethodDelete, "/api/v1/accounts/acc-2", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestAuth_RejectsMissingAndForeignTokens() {
	w := suite.requestWithToken(http.MethodGet, "/api/v1/accounts", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.KindUnauthorized, suite.decode(w).Error.Kind)

	w = suite.requestWithToken(http.MethodGet, "/api/v1/accounts", nil, suite.generateTestToken(testUserID, "someone-else", time.Hour))
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.requestWithToken(http.MethodGet, "/api/v1/accounts", nil, suite.generateTestToken(testUserID, testIssuer, -time.Minute))
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Token has expired", suite.decode(w).Error.Message)
}

func (suite *HandlerTestSuite) TestHealth_IsPublic() {
	w := suite.requestWithToken(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.True(suite.decode(w).OK)
}
