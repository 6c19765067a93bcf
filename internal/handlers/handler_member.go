package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
)

// memberHandler handles HTTP requests for the member registry.
type memberHandler struct {
	memberService    portssvc.MemberSvcFacade
	loanService      portssvc.LoanSvcFacade
	deductionService portssvc.DeductionSvcFacade
}

func newMemberHandler(memberService portssvc.MemberSvcFacade, loanService portssvc.LoanSvcFacade, deductionService portssvc.DeductionSvcFacade) *memberHandler {
	return &memberHandler{
		memberService:    memberService,
		loanService:      loanService,
		deductionService: deductionService,
	}
}

// registerMemberRoutes registers member registry routes.
func registerMemberRoutes(rg *gin.RouterGroup, memberService portssvc.MemberSvcFacade, loanService portssvc.LoanSvcFacade, deductionService portssvc.DeductionSvcFacade) {
	h := newMemberHandler(memberService, loanService, deductionService)

	members := rg.Group("/members")
	{
		members.POST("", h.createMember)
		members.GET("", h.listMembers)
		members.GET("/:memberID", h.getMember)
		members.GET("/:memberID/loans", h.listMemberLoans)
		members.GET("/:memberID/deductions", h.listMemberDeductions)
	}
}

// createMember godoc
// @Summary Register a member
// @Tags members
// @Accept json
// @Produce json
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createMember", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorID(c)
	if !ok {
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// getMember godoc
// @Summary Get a member
// @Tags members
// @Produce json
// @Param memberID path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{memberID} [get]
func (h *memberHandler) getMember(c *gin.Context) {
	member, err := h.memberService.GetMemberByID(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve member")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// listMembers godoc
// @Summary List members
// @Tags members
// @Produce json
// @Success 200 {array} dto.MemberResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	members, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

// listMemberLoans godoc
// @Summary List a member's loans
// @Tags members
// @Produce json
// @Param memberID path string true "Member ID"
// @Success 200 {array} dto.LoanResponse
// @Security BearerAuth
// @Router /members/{memberID}/loans [get]
func (h *memberHandler) listMemberLoans(c *gin.Context) {
	loans, err := h.loanService.ListLoansByMember(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to list member loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponses(loans))
}

// listMemberDeductions godoc
// @Summary List a member's deduction snapshots
// @Tags members
// @Produce json
// @Param memberID path string true "Member ID"
// @Success 200 {array} dto.DeductionResponse
// @Security BearerAuth
// @Router /members/{memberID}/deductions [get]
func (h *memberHandler) listMemberDeductions(c *gin.Context) {
	deductions, err := h.deductionService.ListDeductionsByMember(c.Request.Context(), c.Param("memberID"))
	if err != nil {
		respondError(c, err, "Failed to list member deductions")
		return
	}
	c.JSON(http.StatusOK, dto.ToDeductionResponses(deductions))
}
