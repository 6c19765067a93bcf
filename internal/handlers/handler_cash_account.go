package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// cashAccountHandler handles HTTP requests for cash pools.
type cashAccountHandler struct {
	cashAccountService portssvc.CashAccountSvcFacade
}

func newCashAccountHandler(cashAccountService portssvc.CashAccountSvcFacade) *cashAccountHandler {
	return &cashAccountHandler{cashAccountService: cashAccountService}
}

// registerCashAccountRoutes registers cash account routes.
func registerCashAccountRoutes(rg *gin.RouterGroup, cashAccountService portssvc.CashAccountSvcFacade) {
	h := newCashAccountHandler(cashAccountService)

	cashAccounts := rg.Group("/cash-accounts")
	{
		cashAccounts.POST("", h.createCashAccount)
		cashAccounts.GET("", h.listCashAccounts)
		cashAccounts.POST("/transfer", h.transferCash)
		cashAccounts.GET("/:cashAccountID", h.getCashAccount)
		cashAccounts.POST("/:cashAccountID/adjust", h.adjustCashAccount)
	}
}

// createCashAccount godoc
// @Summary Create a cash account
// @Description Registers a cash pool backed by an asset ledger account. A positive opening balance posts an opening journal.
// @Tags cash-accounts
// @Accept json
// @Produce json
// @Param cashAccount body dto.CreateCashAccountRequest true "Cash account details"
// @Success 201 {object} dto.CashAccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts [post]
func (h *cashAccountHandler) createCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCashAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCashAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	account, err := h.cashAccountService.CreateCashAccount(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "Failed to create cash account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCashAccountResponse(account))
}

// getCashAccount godoc
// @Summary Get a cash account
// @Tags cash-accounts
// @Produce json
// @Param cashAccountID path string true "Cash account ID"
// @Success 200 {object} dto.CashAccountResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cash-accounts/{cashAccountID} [get]
func (h *cashAccountHandler) getCashAccount(c *gin.Context) {
	account, err := h.cashAccountService.GetCashAccountByID(c.Request.Context(), c.Param("cashAccountID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve cash account")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashAccountResponse(account))
}

// listCashAccounts godoc
// @Summary List cash accounts
// @Tags cash-accounts
// @Produce json
// @Param includeInactive query bool false "Include deactivated cash accounts"
// @Success 200 {array} dto.CashAccountResponse
// @Security BearerAuth
// @Router /cash-accounts [get]
func (h *cashAccountHandler) listCashAccounts(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	accounts, err := h.cashAccountService.ListCashAccounts(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err, "Failed to list cash accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashAccountResponses(accounts))
}

// adjustCashAccount godoc
// @Summary Adjust a cash account balance
// @Description Moves money into (CREDIT) or out of (DEBIT) the cash account with a paired adjustment journal.
// @Tags cash-accounts
// @Accept json
// @Produce json
// @Param cashAccountID path string true "Cash account ID"
// @Param adjustment body dto.AdjustCashRequest true "Adjustment details"
// @Success 200 {object} map[string]string "New balance"
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Balance would go negative"
// @Security BearerAuth
// @Router /cash-accounts/{cashAccountID}/adjust [post]
func (h *cashAccountHandler) adjustCashAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AdjustCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adjustCashAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	balance, err := h.cashAccountService.Adjust(c.Request.Context(), c.Param("cashAccountID"), req.Amount, portssvc.CashDirection(req.Direction), req.Memo, id)
	if err != nil {
		respondError(c, err, "Failed to adjust cash account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance.String()})
}

// transferCash godoc
// @Summary Transfer between cash accounts
// @Description Atomically moves money between two cash accounts with one balanced journal.
// @Tags cash-accounts
// @Accept json
// @Produce json
// @Param transfer body dto.TransferCashRequest true "Transfer details"
// @Success 200 {object} dto.CashTransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient source balance"
// @Security BearerAuth
// @Router /cash-accounts/transfer [post]
func (h *cashAccountHandler) transferCash(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transferCash", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	result, err := h.cashAccountService.TransferCash(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, err, "Failed to transfer cash")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashTransferResponse(result))
}
