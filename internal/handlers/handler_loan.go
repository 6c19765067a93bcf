package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// loanHandler handles HTTP requests for the loan lifecycle.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: loanService}
}

// registerLoanRoutes registers loan and installment routes.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.applyLoan)
		loans.POST("/calculate-installment", h.calculateInstallment)
		loans.GET("/:loanID", h.getLoan)
		loans.POST("/:loanID/approve", h.approveLoan)
		loans.POST("/:loanID/reject", h.rejectLoan)
		loans.POST("/:loanID/disburse", h.disburseLoan)
		loans.POST("/:loanID/settle", h.settleLoan)
	}

	installments := rg.Group("/installments")
	{
		installments.POST("/overdue", h.markOverdue)
		installments.POST("/:installmentID/pay", h.payInstallment)
	}
}

// applyLoan godoc
// @Summary Apply for a loan
// @Description Registers a pending loan application for an active member.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.ApplyLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Member not found"
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) applyLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for applyLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.ApplyLoan(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "Failed to apply for loan")
		return
	}
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// calculateInstallment godoc
// @Summary Preview the monthly installment
// @Description Calculates the fixed reducing-balance installment without creating a loan.
// @Tags loans
// @Accept json
// @Produce json
// @Param terms body dto.CalculateInstallmentRequest true "Loan terms"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/calculate-installment [post]
func (h *loanHandler) calculateInstallment(c *gin.Context) {
	var req dto.CalculateInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	installment, err := h.loanService.CalculateInstallment(c.Request.Context(), req.Principal, req.AnnualRatePercent, req.TenureMonths)
	if err != nil {
		respondError(c, err, "Failed to calculate installment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"installmentAmount": installment.String()})
}

// getLoan godoc
// @Summary Get a loan with its schedule
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("loanID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// approveLoan godoc
// @Summary Approve a pending loan
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not pending"
// @Security BearerAuth
// @Router /loans/{loanID}/approve [post]
func (h *loanHandler) approveLoan(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		return
	}
	loan, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("loanID"), id)
	if err != nil {
		respondError(c, err, "Failed to approve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// rejectLoan godoc
// @Summary Reject a pending loan
// @Tags loans
// @Produce json
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not pending"
// @Security BearerAuth
// @Router /loans/{loanID}/reject [post]
func (h *loanHandler) rejectLoan(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		return
	}
	loan, err := h.loanService.RejectLoan(c.Request.Context(), c.Param("loanID"), id)
	if err != nil {
		respondError(c, err, "Failed to reject loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// disburseLoan godoc
// @Summary Disburse an approved loan
// @Description Generates the installment schedule, pays out the principal and posts the disbursement journal.
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param disbursement body dto.DisburseLoanRequest true "Disbursement details"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan already disbursed or not approved"
// @Failure 422 {object} ErrorResponse "Insufficient cash balance"
// @Security BearerAuth
// @Router /loans/{loanID}/disburse [post]
func (h *loanHandler) disburseLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DisburseLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for disburseLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.DisburseLoan(c.Request.Context(), c.Param("loanID"), req, id)
	if err != nil {
		respondError(c, err, "Failed to disburse loan")
		return
	}

	logger.Info("Loan disbursed", slog.String("loan_id", loan.LoanID), slog.String("member_id", loan.MemberID))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// payInstallment godoc
// @Summary Pay one installment
// @Description Records a payment against one installment. A zero amount pays the full outstanding total; a smaller amount is applied interest first.
// @Tags loans
// @Accept json
// @Produce json
// @Param installmentID path string true "Installment ID"
// @Param payment body dto.PayInstallmentRequest true "Payment details"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Installment already paid"
// @Security BearerAuth
// @Router /installments/{installmentID}/pay [post]
func (h *loanHandler) payInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	installment, err := h.loanService.PayInstallment(c.Request.Context(), c.Param("installmentID"), req, id)
	if err != nil {
		respondError(c, err, "Failed to pay installment")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// settleLoan godoc
// @Summary Settle a loan early
// @Description Pays off the remaining principal, cancelling future installments with no further interest.
// @Tags loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID"
// @Param settlement body dto.SettleEarlyRequest true "Settlement details"
// @Success 200 {object} dto.SettlementResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan is not active"
// @Security BearerAuth
// @Router /loans/{loanID}/settle [post]
func (h *loanHandler) settleLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SettleEarlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settleLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	summary, err := h.loanService.SettleEarly(c.Request.Context(), c.Param("loanID"), req, id)
	if err != nil {
		respondError(c, err, "Failed to settle loan")
		return
	}

	logger.Info("Loan settled early", slog.String("loan_id", summary.LoanID))
	c.JSON(http.StatusOK, dto.ToSettlementResponse(summary))
}

// markOverdue godoc
// @Summary Mark overdue installments
// @Description Flips pending installments past their due date to overdue. Intended for a scheduled caller.
// @Tags loans
// @Produce json
// @Param asOf query string false "Reference date (RFC 3339), defaults to now"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /installments/overdue [post]
func (h *loanHandler) markOverdue(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid 'asOf' date: " + err.Error()})
			return
		}
		asOf = parsed
	}

	count, err := h.loanService.MarkOverdue(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to mark overdue installments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"markedOverdue": count})
}
