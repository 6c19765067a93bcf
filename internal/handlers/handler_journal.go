package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// journalHandler handles HTTP requests for the ledger.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes registers ledger routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}
}

// postJournal godoc
// @Summary Post a manual journal
// @Description Validates and persists a balanced manual journal entry.
// @Tags journals
// @Accept json
// @Produce json
// @Param journal body dto.PostJournalRequest true "Journal draft"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Unbalanced or malformed draft"
// @Failure 409 {object} ErrorResponse "Period closed or account inactive"
// @Security BearerAuth
// @Router /journals [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	journal, err := h.journalService.PostJournal(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "Failed to post journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal with its lines
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.journalService.GetJournalByID(c.Request.Context(), c.Param("journalID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals in a date range
// @Tags journals
// @Produce json
// @Param from query string false "Start date (RFC 3339)"
// @Param to query string false "End date (RFC 3339)"
// @Param limit query int false "Maximum entries, default 50"
// @Success 200 {array} dto.JournalResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	var from, to time.Time
	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'from' date: " + err.Error()})
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'to' date: " + err.Error()})
			return
		}
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'limit' value"})
			return
		}
	}

	journals, err := h.journalService.ListJournals(c.Request.Context(), from, to, limit)
	if err != nil {
		respondError(c, err, "Failed to list journals")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalResponses(journals))
}

// reverseJournal godoc
// @Summary Reverse a posted manual journal
// @Description Posts a mirror journal and links the pair. Auto-generated journals cannot be reversed here.
// @Tags journals
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already reversed or auto-generated"
// @Security BearerAuth
// @Router /journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		return
	}
	journal, err := h.journalService.ReverseJournal(c.Request.Context(), c.Param("journalID"), id)
	if err != nil {
		respondError(c, err, "Failed to reverse journal")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}
