package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"omitempty,max=50"` // Optional, generated when empty
	Name            string             `json:"name" binding:"required,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,accounttype"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	IsCash          bool               `json:"isCash"`
	Description     string             `json:"description"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name            *string               `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string               `json:"description"`
	Status          *domain.AccountStatus `json:"status" binding:"omitempty,oneof=A I"`
	IsCash          *bool                 `json:"isCash"`
	ParentAccountID *string               `json:"parentAccountID"` // "" moves the account to the root
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType domain.AccountType   `form:"accountType" binding:"omitempty,accounttype"`
	Status      domain.AccountStatus `form:"status" binding:"omitempty,oneof=A I"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string               `json:"accountID"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	AccountType     domain.AccountType   `json:"accountType"`
	ParentAccountID string               `json:"parentAccountID,omitempty"`
	Level           int                  `json:"level"`
	Status          domain.AccountStatus `json:"status"`
	IsCash          bool                 `json:"isCash"`
	Description     string               `json:"description"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy   string               `json:"lastUpdatedBy"`
}

// AccountTreeNodeResponse is an account in tree order; Level drives indentation.
type AccountTreeNodeResponse struct {
	AccountResponse
	HasChildren bool `json:"hasChildren"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		Status:          acc.Status,
		IsCash:          acc.IsCash,
		Description:     acc.Description,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToAccountTreeResponse converts ordered tree nodes.
func ToAccountTreeResponse(nodes []domain.AccountTreeNode) []AccountTreeNodeResponse {
	res := make([]AccountTreeNodeResponse, len(nodes))
	for i := range nodes {
		res[i] = AccountTreeNodeResponse{
			AccountResponse: ToAccountResponse(&nodes[i].Account),
			HasChildren:     nodes[i].HasChildren,
		}
	}
	return res
}
