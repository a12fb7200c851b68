package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/utils/accounting"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the time source used for audit fields.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		txManager:   txManager,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "is required"
	}
	if !req.AccountType.Valid() {
		fields["accountType"] = "must be one of ASSET, LIABILITY, EQUITY, INCOME, EXPENSE"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid account", fields)
	}

	now := s.now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        strings.TrimSpace(req.Code),
		Name:        name,
		AccountType: req.AccountType,
		Level:       1,
		Status:      domain.AccountActive,
		IsCash:      req.IsCash,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		accounts := uow.Accounts()

		parentCode := ""
		if req.ParentAccountID != nil && *req.ParentAccountID != "" {
			parent, err := findParent(ctx, accounts, *req.ParentAccountID, account.AccountType)
			if err != nil {
				return err
			}
			account.ParentAccountID = parent.AccountID
			account.Level = parent.Level + 1
			parentCode = parent.Code
		}

		if account.Code == "" {
			existing, err := accounts.ListCodesWithPrefix(ctx, accounting.AccountCodePrefix(parentCode, account.AccountType))
			if err != nil {
				return err
			}
			account.Code = accounting.NextAccountCode(parentCode, account.AccountType, existing)
		}

		return accounts.SaveAccount(ctx, account)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create account", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

// findParent loads a prospective parent; it must exist and share the child's type.
func findParent(ctx context.Context, accounts portsrepo.AccountReader, parentID string, accountType domain.AccountType) (*domain.Account, error) {
	parent, err := accounts.FindAccountByID(ctx, parentID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.NewValidationError("parent account does not exist",
				map[string]string{"parentAccountID": "account " + parentID + " does not exist"})
		}
		return nil, err
	}
	if parent.AccountType != accountType {
		return nil, apperrors.NewValidationError("account type must match its parent",
			map[string]string{"accountType": fmt.Sprintf("must be %s to sit under %s", parent.AccountType, parent.Code)})
	}
	return parent, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{
		AccountType: params.AccountType,
		Status:      params.Status,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *accountService) GetAccountTree(ctx context.Context) ([]domain.AccountTreeNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, domain.AccountFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for tree")
		return nil, err
	}
	return accounting.OrderAccountTree(accounts), nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var updated domain.Account
	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		accounts := uow.Accounts()
		current, err := accounts.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		account := *current

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.NewValidationError("invalid account", map[string]string{"name": "must not be empty"})
			}
			account.Name = name
		}
		if req.Description != nil {
			account.Description = *req.Description
		}
		if req.Status != nil {
			if *req.Status != domain.AccountActive && *req.Status != domain.AccountInactive {
				return apperrors.NewValidationError("invalid account", map[string]string{"status": "must be one of A I"})
			}
			account.Status = *req.Status
		}
		if req.IsCash != nil {
			account.IsCash = *req.IsCash
		}

		delta := 0
		if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
			newParentID := *req.ParentAccountID
			newLevel := 1
			if newParentID != "" {
				if newParentID == accountID {
					return apperrors.NewStateError("an account cannot be its own parent")
				}
				parent, err := findParent(ctx, accounts, newParentID, account.AccountType)
				if err != nil {
					return err
				}
				if err := ensureNotDescendant(ctx, accounts, parent, accountID); err != nil {
					return err
				}
				newLevel = parent.Level + 1
			}
			delta = newLevel - account.Level
			account.ParentAccountID = newParentID
			account.Level = newLevel
		}

		account.LastUpdatedAt = s.now().UTC()
		account.LastUpdatedBy = userID
		if err := accounts.UpdateAccount(ctx, account); err != nil {
			return err
		}
		if err := accounts.ShiftSubtreeLevels(ctx, accountID, delta); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	return &updated, nil
}

// ensureNotDescendant walks from parent up to the root and fails if accountID is on the way.
func ensureNotDescendant(ctx context.Context, accounts portsrepo.AccountReader, parent *domain.Account, accountID string) error {
	seen := map[string]bool{}
	for cur := parent; cur != nil && cur.ParentAccountID != ""; {
		if cur.ParentAccountID == accountID {
			return apperrors.NewStateError("an account cannot be moved under one of its descendants")
		}
		if seen[cur.ParentAccountID] {
			return apperrors.NewStateError("account hierarchy contains a cycle")
		}
		seen[cur.ParentAccountID] = true
		next, err := accounts.FindAccountByID(ctx, cur.ParentAccountID)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	err := s.txManager.WithinTx(ctx, portsrepo.ReadCommitted, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		accounts := uow.Accounts()
		if _, err := accounts.FindAccountByID(ctx, accountID); err != nil {
			return err
		}

		children, err := accounts.CountChildren(ctx, accountID)
		if err != nil {
			return err
		}
		if children > 0 {
			return apperrors.NewStateError(fmt.Sprintf("account has %d child account(s) and cannot be deleted", children))
		}

		referenced, err := accounts.IsReferenced(ctx, accountID)
		if err != nil {
			return err
		}
		if referenced {
			return apperrors.NewStateError("account is used by journal entries and cannot be deleted")
		}

		return accounts.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully",
		slog.String("account_id", accountID),
		slog.String("user_id", userID))
	return nil
}
