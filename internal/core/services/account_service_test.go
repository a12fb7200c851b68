package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	books   *books
	service portssvc.AccountSvcFacade
	ctx     context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.books = newBooks(suite.T())
	suite.service = suite.books.accounts
	suite.ctx = context.Background()
}

func (suite *AccountServiceTestSuite) create(req dto.CreateAccountRequest) *domain.Account {
	acc, err := suite.service.CreateAccount(suite.ctx, req, testUser)
	suite.Require().NoError(err)
	return acc
}

func strPtr(s string) *string { return &s }

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	acc := suite.create(dto.CreateAccountRequest{Name: " Cash in hand ", AccountType: domain.Asset, IsCash: true})

	suite.NotEmpty(acc.AccountID)
	suite.Equal("Cash in hand", acc.Name)
	suite.Equal("1001", acc.Code)
	suite.Equal(1, acc.Level)
	suite.Equal(domain.AccountActive, acc.Status)
	suite.True(acc.IsCash)
	suite.Equal(testUser, acc.CreatedBy)
	suite.WithinDuration(time.Now(), acc.CreatedAt, time.Second)

	stored, err := suite.service.GetAccountByID(suite.ctx, acc.AccountID)
	suite.Require().NoError(err)
	suite.Equal(acc.Code, stored.Code)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_GeneratesCodes() {
	assets := suite.create(dto.CreateAccountRequest{Name: "Current Assets", AccountType: domain.Asset})
	fixed := suite.create(dto.CreateAccountRequest{Name: "Fixed Assets", AccountType: domain.Asset})
	income := suite.create(dto.CreateAccountRequest{Name: "Revenue", AccountType: domain.Income})
	cash := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, ParentAccountID: strPtr(assets.AccountID)})
	bank := suite.create(dto.CreateAccountRequest{Name: "Bank", AccountType: domain.Asset, ParentAccountID: strPtr(assets.AccountID)})
	petty := suite.create(dto.CreateAccountRequest{Name: "Petty", AccountType: domain.Asset, ParentAccountID: strPtr(cash.AccountID)})

	suite.Equal("1001", assets.Code)
	suite.Equal("1002", fixed.Code)
	suite.Equal("4001", income.Code)
	suite.Equal("1001.01", cash.Code)
	suite.Equal("1001.02", bank.Code)
	suite.Equal("1001.01.01", petty.Code)
	suite.Equal(3, petty.Level)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_GeneratedCodeSkipsCodesEnteredByHand() {
	// A liability typed in with an asset style code must not block generated asset codes.
	suite.create(dto.CreateAccountRequest{Code: "1001", Name: "Odd loan", AccountType: domain.Liability})
	assets := suite.create(dto.CreateAccountRequest{Name: "Current Assets", AccountType: domain.Asset})
	fixed := suite.create(dto.CreateAccountRequest{Name: "Fixed Assets", AccountType: domain.Asset})
	suite.Equal("1002", assets.Code)
	suite.Equal("1003", fixed.Code)

	// The same holds under a parent when a sibling-looking code sits elsewhere in the tree.
	other := suite.create(dto.CreateAccountRequest{Name: "Other", AccountType: domain.Asset})
	suite.create(dto.CreateAccountRequest{Code: "1002.01", Name: "Misfiled", AccountType: domain.Asset, ParentAccountID: strPtr(other.AccountID)})
	cash := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, ParentAccountID: strPtr(assets.AccountID)})
	suite.Equal("1002.02", cash.Code)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ExplicitCodeMustBeUnique() {
	suite.create(dto.CreateAccountRequest{Code: "CASH", Name: "Cash", AccountType: domain.Asset})

	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "CASH", Name: "Other", AccountType: domain.Asset}, testUser)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Validation() {
	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: " ", AccountType: "ASSETS"}, testUser)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	fields := apperrors.FieldsOf(err)
	suite.Contains(fields, "name")
	suite.Contains(fields, "accountType")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentMustExistAndShareType() {
	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Orphan", AccountType: domain.Asset, ParentAccountID: strPtr("missing"),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(apperrors.FieldsOf(err), "parentAccountID")

	assets := suite.create(dto.CreateAccountRequest{Name: "Assets", AccountType: domain.Asset})
	_, err = suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Name: "Loan", AccountType: domain.Liability, ParentAccountID: strPtr(assets.AccountID),
	}, testUser)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(apperrors.FieldsOf(err), "accountType")
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_DetailsAndStatus() {
	acc := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset})
	inactive := domain.AccountInactive
	isCash := true

	updated, err := suite.service.UpdateAccount(suite.ctx, acc.AccountID, dto.UpdateAccountRequest{
		Name:        strPtr("Cash at office"),
		Description: strPtr("drawer"),
		Status:      &inactive,
		IsCash:      &isCash,
	}, "user-2")
	suite.Require().NoError(err)
	suite.Equal("Cash at office", updated.Name)
	suite.Equal("drawer", updated.Description)
	suite.Equal(domain.AccountInactive, updated.Status)
	suite.True(updated.IsCash)
	suite.Equal("user-2", updated.LastUpdatedBy)
	suite.Equal(acc.Code, updated.Code)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_MoveRelevelsSubtree() {
	a := suite.create(dto.CreateAccountRequest{Name: "A", AccountType: domain.Asset})
	b := suite.create(dto.CreateAccountRequest{Name: "B", AccountType: domain.Asset})
	child := suite.create(dto.CreateAccountRequest{Name: "B1", AccountType: domain.Asset, ParentAccountID: strPtr(b.AccountID)})
	grandchild := suite.create(dto.CreateAccountRequest{Name: "B1a", AccountType: domain.Asset, ParentAccountID: strPtr(child.AccountID)})

	moved, err := suite.service.UpdateAccount(suite.ctx, b.AccountID, dto.UpdateAccountRequest{ParentAccountID: strPtr(a.AccountID)}, testUser)
	suite.Require().NoError(err)
	suite.Equal(2, moved.Level)
	suite.Equal(a.AccountID, moved.ParentAccountID)

	c, err := suite.service.GetAccountByID(suite.ctx, child.AccountID)
	suite.Require().NoError(err)
	suite.Equal(3, c.Level)
	g, err := suite.service.GetAccountByID(suite.ctx, grandchild.AccountID)
	suite.Require().NoError(err)
	suite.Equal(4, g.Level)

	// Back to the root.
	root, err := suite.service.UpdateAccount(suite.ctx, b.AccountID, dto.UpdateAccountRequest{ParentAccountID: strPtr("")}, testUser)
	suite.Require().NoError(err)
	suite.Equal(1, root.Level)
	g, err = suite.service.GetAccountByID(suite.ctx, grandchild.AccountID)
	suite.Require().NoError(err)
	suite.Equal(3, g.Level)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsCycles() {
	a := suite.create(dto.CreateAccountRequest{Name: "A", AccountType: domain.Asset})
	child := suite.create(dto.CreateAccountRequest{Name: "A1", AccountType: domain.Asset, ParentAccountID: strPtr(a.AccountID)})
	grandchild := suite.create(dto.CreateAccountRequest{Name: "A1a", AccountType: domain.Asset, ParentAccountID: strPtr(child.AccountID)})

	_, err := suite.service.UpdateAccount(suite.ctx, a.AccountID, dto.UpdateAccountRequest{ParentAccountID: strPtr(a.AccountID)}, testUser)
	suite.ErrorIs(err, apperrors.ErrStateConflict)

	_, err = suite.service.UpdateAccount(suite.ctx, a.AccountID, dto.UpdateAccountRequest{ParentAccountID: strPtr(grandchild.AccountID)}, testUser)
	suite.ErrorIs(err, apperrors.ErrStateConflict)

	unchanged, err := suite.service.GetAccountByID(suite.ctx, a.AccountID)
	suite.Require().NoError(err)
	suite.True(unchanged.IsRoot())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	_, err := suite.service.UpdateAccount(suite.ctx, "missing", dto.UpdateAccountRequest{Name: strPtr("x")}, testUser)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Guards() {
	parent := suite.create(dto.CreateAccountRequest{Name: "Assets", AccountType: domain.Asset})
	cash := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, ParentAccountID: strPtr(parent.AccountID)})
	capital := suite.create(dto.CreateAccountRequest{Name: "Capital", AccountType: domain.Equity})
	unused := suite.create(dto.CreateAccountRequest{Name: "Unused", AccountType: domain.Expense})

	err := suite.service.DeleteAccount(suite.ctx, parent.AccountID, testUser)
	suite.ErrorIs(err, apperrors.ErrStateConflict, "accounts with children stay")

	suite.books.draft(suite.T(), "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))
	err = suite.service.DeleteAccount(suite.ctx, cash.AccountID, testUser)
	suite.ErrorIs(err, apperrors.ErrStateConflict, "accounts used by drafts stay")

	suite.Require().NoError(suite.service.DeleteAccount(suite.ctx, unused.AccountID, testUser))
	_, err = suite.service.GetAccountByID(suite.ctx, unused.AccountID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	err = suite.service.DeleteAccount(suite.ctx, unused.AccountID, testUser)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_PostedReferencesBlockDeletion() {
	cash := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, IsCash: true})
	capital := suite.create(dto.CreateAccountRequest{Name: "Capital", AccountType: domain.Equity})
	entry := suite.books.draft(suite.T(), "2024-04-01", domain.ReceiptVoucher, "Capital",
		line(cash.AccountID, "10", "0"), line(capital.AccountID, "0", "10"))
	suite.books.post(suite.T(), entry.EntryID)

	err := suite.service.DeleteAccount(suite.ctx, capital.AccountID, testUser)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Len(suite.books.ledgerRows(suite.T(), capital.AccountID), 1)
}

func (suite *AccountServiceTestSuite) TestListAccountsAndTree() {
	expenses := suite.create(dto.CreateAccountRequest{Name: "Expenses", AccountType: domain.Expense})
	assets := suite.create(dto.CreateAccountRequest{Name: "Assets", AccountType: domain.Asset})
	bank := suite.create(dto.CreateAccountRequest{Name: "Bank", AccountType: domain.Asset, ParentAccountID: strPtr(assets.AccountID)})
	cash := suite.create(dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset, ParentAccountID: strPtr(assets.AccountID)})
	rent := suite.create(dto.CreateAccountRequest{Name: "Rent", AccountType: domain.Expense, ParentAccountID: strPtr(expenses.AccountID)})

	all, err := suite.service.ListAccounts(suite.ctx, dto.ListAccountsParams{})
	suite.Require().NoError(err)
	suite.Len(all, 5)
	suite.Equal([]string{"1001", "5001", "1001.01", "1001.02", "5001.01"},
		[]string{all[0].Code, all[1].Code, all[2].Code, all[3].Code, all[4].Code})

	onlyExpenses, err := suite.service.ListAccounts(suite.ctx, dto.ListAccountsParams{AccountType: domain.Expense})
	suite.Require().NoError(err)
	suite.Len(onlyExpenses, 2)

	tree, err := suite.service.GetAccountTree(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(tree, 5)
	ids := make([]string, len(tree))
	for i, n := range tree {
		ids[i] = n.AccountID
	}
	suite.Equal([]string{assets.AccountID, bank.AccountID, cash.AccountID, expenses.AccountID, rent.AccountID}, ids)
	suite.True(tree[0].HasChildren)
	suite.False(tree[1].HasChildren)
	suite.Equal(2, tree[4].Level)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
