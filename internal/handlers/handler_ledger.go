package handlers

import (
	"net/http"
	"strconv"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ledgerService portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// registerLedgerRoutes registers the read-only ledger routes.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("", h.getLedger)
		ledger.GET("/opening-balance", h.getOpeningBalance)
		ledger.GET("/statement/:accountID", h.getAccountStatement)
		ledger.GET("/:ledgerID", h.getLedgerRow)
	}
}

// getLedger godoc
// @Summary List ledger rows
// @Description Lists posted ledger rows ordered by entry date then ledger id, one keyset page at a time
// @Tags ledger
// @Produce  json
// @Param   accountID query string false "Account ID"
// @Param   entryID query string false "Entry ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.Response{data=dto.ListLedgerResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters or token"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list ledger"
// @Security BearerAuth
// @Router /ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	page, err := h.ledgerService.GetLedger(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "List ledger")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ListLedgerResponse{
		Rows:      dto.ToLedgerRowResponses(page.Rows),
		NextToken: page.NextToken,
	}))
}

// getOpeningBalance godoc
// @Summary Get an opening balance
// @Description Sums debit minus credit of every row dated before the given date, for one account or the whole ledger
// @Tags ledger
// @Produce  json
// @Param   accountID query string false "Account ID; omit for every account"
// @Param   before query string true "Date (YYYY-MM-DD), exclusive"
// @Success 200 {object} dto.Response{data=dto.OpeningBalanceResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 500 {object} dto.Response "Failed to compute balance"
// @Security BearerAuth
// @Router /ledger/opening-balance [get]
func (h *ledgerHandler) getOpeningBalance(c *gin.Context) {
	var params dto.OpeningBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	before, ok := requiredDate(c, "before", params.Before)
	if !ok {
		return
	}

	var accountID *string
	if params.AccountID != "" {
		accountID = &params.AccountID
	}

	balance, err := h.ledgerService.GetOpeningBalance(c.Request.Context(), accountID, before)
	if err != nil {
		respondError(c, err, "Get opening balance")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.OpeningBalanceResponse{
		AccountID: params.AccountID,
		Before:    params.Before,
		Balance:   balance,
	}))
}

// getAccountStatement godoc
// @Summary Get an account statement
// @Description Returns the opening balance, rows, totals and closing balance of an account for a period
// @Tags ledger
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.Response{data=dto.AccountStatementResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Account not found"
// @Failure 500 {object} dto.Response "Failed to build statement"
// @Security BearerAuth
// @Router /ledger/statement/{accountID} [get]
func (h *ledgerHandler) getAccountStatement(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	statement, err := h.ledgerService.GetAccountStatement(c.Request.Context(), c.Param("accountID"),
		optionalDate(params.From), optionalDate(params.To))
	if err != nil {
		respondError(c, err, "Get account statement")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ToAccountStatementResponse(statement)))
}

// getLedgerRow godoc
// @Summary Get a ledger row with its voucher
// @Description Returns a ledger row together with the full journal entry that produced it
// @Tags ledger
// @Produce  json
// @Param   ledgerID path int true "Ledger row ID"
// @Success 200 {object} dto.Response{data=dto.VoucherResponse}
// @Failure 400 {object} dto.Response "Invalid ledger ID"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Ledger row not found"
// @Failure 500 {object} dto.Response "Failed to retrieve ledger row"
// @Security BearerAuth
// @Router /ledger/{ledgerID} [get]
func (h *ledgerHandler) getLedgerRow(c *gin.Context) {
	ledgerID, err := strconv.ParseInt(c.Param("ledgerID"), 10, 64)
	if err != nil || ledgerID <= 0 {
		c.JSON(http.StatusBadRequest, dto.Failure(apperrors.KindValidation, "Invalid request",
			map[string]string{"ledgerID": "must be a positive integer"}))
		return
	}

	voucher, err := h.ledgerService.GetLedgerRow(c.Request.Context(), ledgerID)
	if err != nil {
		respondError(c, err, "Get ledger row")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.VoucherResponse{
		Row:   dto.ToLedgerRowResponse(&voucher.Row),
		Entry: dto.ToJournalEntryResponse(&voucher.Entry),
	}))
}
