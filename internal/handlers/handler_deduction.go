package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KopSinergi/koperasi_backend/internal/core/domain"
	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// deductionHandler handles HTTP requests for payroll deduction runs.
type deductionHandler struct {
	deductionService portssvc.DeductionSvcFacade
}

func newDeductionHandler(deductionService portssvc.DeductionSvcFacade) *deductionHandler {
	return &deductionHandler{deductionService: deductionService}
}

// registerDeductionRoutes registers deduction run routes.
func registerDeductionRoutes(rg *gin.RouterGroup, deductionService portssvc.DeductionSvcFacade) {
	h := newDeductionHandler(deductionService)

	deductions := rg.Group("/deductions")
	{
		deductions.POST("/salary", h.distributeSalary)
		deductions.POST("/service-allowance", h.distributeServiceAllowance)
		deductions.GET("/:deductionID", h.getDeduction)
	}
}

// distributeSalary godoc
// @Summary Run a salary deduction
// @Description Deducts due installments of salary and mixed loans from one member's salary for the month and records the payroll snapshot.
// @Tags deductions
// @Accept json
// @Produce json
// @Param deduction body dto.DistributeDeductionRequest true "Deduction run details"
// @Success 201 {object} dto.DeductionResponse
// @Failure 400 {object} ErrorResponse "Net salary would be negative"
// @Failure 409 {object} ErrorResponse "Run already recorded for this month"
// @Security BearerAuth
// @Router /deductions/salary [post]
func (h *deductionHandler) distributeSalary(c *gin.Context) {
	h.distribute(c, h.deductionService.DistributeSalaryDeduction)
}

// distributeServiceAllowance godoc
// @Summary Run a service allowance deduction
// @Description Companion run to the salary deduction, covering service-allowance and mixed loans.
// @Tags deductions
// @Accept json
// @Produce json
// @Param deduction body dto.DistributeDeductionRequest true "Deduction run details"
// @Success 201 {object} dto.DeductionResponse
// @Failure 400 {object} ErrorResponse "Net amount would be negative"
// @Failure 409 {object} ErrorResponse "Run already recorded for this month"
// @Security BearerAuth
// @Router /deductions/service-allowance [post]
func (h *deductionHandler) distributeServiceAllowance(c *gin.Context) {
	h.distribute(c, h.deductionService.DistributeServiceAllowanceDeduction)
}

func (h *deductionHandler) distribute(c *gin.Context, run func(ctx context.Context, req dto.DistributeDeductionRequest, actorID string) (*domain.SalaryDeduction, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.DistributeDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deduction run", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, ok := actorID(c)
	if !ok {
		return
	}

	deduction, err := run(c.Request.Context(), req, id)
	if err != nil {
		respondError(c, err, "Failed to run deduction")
		return
	}

	logger.Info("Deduction run recorded",
		slog.String("deduction_id", deduction.DeductionID),
		slog.String("member_id", deduction.MemberID),
		slog.String("run_type", string(deduction.RunType)))
	c.JSON(http.StatusCreated, dto.ToDeductionResponse(deduction))
}

// getDeduction godoc
// @Summary Get a deduction snapshot
// @Tags deductions
// @Produce json
// @Param deductionID path string true "Deduction ID"
// @Success 200 {object} dto.DeductionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /deductions/{deductionID} [get]
func (h *deductionHandler) getDeduction(c *gin.Context) {
	deduction, err := h.deductionService.GetDeductionByID(c.Request.Context(), c.Param("deductionID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve deduction")
		return
	}
	c.JSON(http.StatusOK, dto.ToDeductionResponse(deduction))
}
