package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/KopSinergi/koperasi_backend/internal/core/ports/services"
	"github.com/KopSinergi/koperasi_backend/internal/core/services"
	"github.com/KopSinergi/koperasi_backend/internal/dto"
	"github.com/KopSinergi/koperasi_backend/internal/middleware"
	"github.com/KopSinergi/koperasi_backend/internal/platform/config"
	"github.com/KopSinergi/koperasi_backend/internal/utils"
)

// authHandler handles login and token issuance.
type authHandler struct {
	memberService portssvc.MemberSvcFacade
	cfg           *config.Config
}

func newAuthHandler(memberService portssvc.MemberSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{memberService: memberService, cfg: cfg}
}

// registerAuthRoutes sets up the public authentication routes with a rate
// limit on login to slow down credential guessing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, memberService portssvc.MemberSvcFacade) {
	h := newAuthHandler(memberService, cfg)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(ipLimiter), h.login)
	}
}

// login godoc
// @Summary Member login
// @Description Authenticates a member and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	member, err := h.memberService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		respondError(c, err, "Failed to authenticate")
		return
	}

	token, err := utils.GenerateJWT(member.MemberID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Member logged in", slog.String("member_id", member.MemberID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:    token,
		Member:   dto.ToMemberResponse(member),
		TokenTTL: h.cfg.JWTExpiryDuration.String(),
	})
}
