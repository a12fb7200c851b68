package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	postingService portssvc.PostingSvc
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvc) *journalHandler {
	return &journalHandler{
		journalService: journalService,
		postingService: postingService,
	}
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, postingService portssvc.PostingSvc) {
	h := newJournalHandler(journalService, postingService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createEntry)
		journals.GET("", h.listEntries)
		journals.GET("/:entryID", h.getEntry)
		journals.PUT("/:entryID", h.updateEntry)
		journals.DELETE("/:entryID", h.deleteEntry)
		journals.POST("/:entryID/post", h.postEntry)
	}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Creates a draft entry with its lines. Drafts need not balance until they are posted.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.Response{data=dto.JournalEntryResponse}
// @Failure 400 {object} dto.Response "Invalid request or field errors"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to create entry"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateDraftEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Create journal entry")
		return
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_no", entry.EntryNo))
	c.JSON(http.StatusCreated, dto.Success("Journal entry created", dto.ToJournalEntryResponse(entry)))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entry headers, newest first, with optional date, status, voucher type and text filters
// @Tags journals
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Param   status query string false "D for drafts, P for posted"
// @Param   voucherType query string false "Voucher type"
// @Param   search query string false "Matches entry number or description"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.Response{data=dto.ListJournalEntriesResponse}
// @Failure 400 {object} dto.Response "Invalid query parameters"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 500 {object} dto.Response "Failed to list entries"
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	entries, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "List journal entries")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ListJournalEntriesResponse{
		Entries: dto.ToJournalEntryResponses(entries),
		Limit:   params.Limit,
		Offset:  params.Offset,
	}))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines and totals
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.Response{data=dto.JournalEntryResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 500 {object} dto.Response "Failed to retrieve entry"
// @Security BearerAuth
// @Router /journals/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Get journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.Success("", dto.ToJournalEntryResponse(entry)))
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Description Replaces the header and every line of a draft. Posted entries are immutable.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Entry header and lines"
// @Success 200 {object} dto.Response{data=dto.JournalEntryResponse}
// @Failure 400 {object} dto.Response "Invalid request or field errors"
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry already posted"
// @Failure 500 {object} dto.Response "Failed to update entry"
// @Security BearerAuth
// @Router /journals/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateDraftEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Update journal entry")
		return
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.Success("Journal entry updated", dto.ToJournalEntryResponse(entry)))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Entry already posted"
// @Failure 500 {object} dto.Response "Failed to delete entry"
// @Security BearerAuth
// @Router /journals/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraftEntry(c.Request.Context(), entryID, userID); err != nil {
		respondError(c, err, "Delete journal entry")
		return
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.Success("Journal entry deleted", nil))
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Checks the entry balances and appends one ledger row per line in a single transaction
// @Tags journals
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.Response{data=dto.JournalEntryResponse}
// @Failure 401 {object} dto.Response "Unauthorized"
// @Failure 404 {object} dto.Response "Entry not found"
// @Failure 409 {object} dto.Response "Already posted or concurrent update"
// @Failure 422 {object} dto.Response "Entry is unbalanced or has no lines"
// @Failure 500 {object} dto.Response "Failed to post entry"
// @Failure 503 {object} dto.Response "Store did not respond in time"
// @Security BearerAuth
// @Router /journals/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.postingService.PostEntry(c.Request.Context(), entryID, userID)
	if err != nil {
		respondError(c, err, "Post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("entry_no", entry.EntryNo))
	c.JSON(http.StatusOK, dto.Success("Journal entry posted", dto.ToJournalEntryResponse(entry)))
}
