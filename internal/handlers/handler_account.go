package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/tree", h.getAccountTree)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account in the chart of accounts. The code is generated from the parent when omitted.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.Response{data=dto.AccountResponse}
// @Failure 400 {object} dto.Response "Invalid input format or validation error"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 409 {object} dto.Response "Account code already exists"
// @Failure 500 {object} dto.Response "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account",
		slog.String("account_name", req.Name),
		slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	c.JSON(http.StatusCreated, dto.Success("Account created", dto.ToAccountResponse(account)))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.Response{data=dto.AccountResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 500 {object} dto.Response "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Get account")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ToAccountResponse(account)))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts ordered by level then code
// @Tags accounts
// @Produce  json
// @Param   accountType query string false "Filter by account type"
// @Param   status query string false "Filter by status (A or I)"
// @Success 200 {object} dto.Response{data=[]dto.AccountResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "List accounts")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ToListAccountResponse(accounts)))
}

// getAccountTree godoc
// @Summary Get the chart of accounts as a tree
// @Description Returns every account in depth first order; level drives indentation
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.Response{data=[]dto.AccountTreeNodeResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to build account tree"
// @Security BearerAuth
// @Router /accounts/tree [get]
func (h *accountHandler) getAccountTree(c *gin.Context) {
	nodes, err := h.accountService.GetAccountTree(c.Request.Context())
	if err != nil {
		respondError(c, err, "Get account tree")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ToAccountTreeResponse(nodes)))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates an account's details, status or parent. Moving an account re-levels its subtree.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.Response{data=dto.AccountResponse}
// @Failure 400 {object} dto.Response "Invalid input"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 409 {object} dto.Response "Move would create a cycle"
// @Failure 500 {object} dto.Response "Failed to update account"
// @Security BearerAuth
// @Router /accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req, userID)
	if err != nil {
		respondError(c, err, "Update account")
		return
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.Success("Account updated", dto.ToAccountResponse(account)))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Deletes an account that has no children and is not used by any journal line or ledger row
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID to delete"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 409 {object} dto.Response "Account is still referenced"
// @Failure 500 {object} dto.Response "Failed to delete account"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, err, "Delete account")
		return
	}

	logger.Info("Account deleted successfully", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.Success("Account deleted", nil))
}
