package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/propnest_backend/internal/core/ports/services"
	"github.com/SscSPs/propnest_backend/internal/dto"
	"github.com/SscSPs/propnest_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and login.
type authHandler struct {
	authService    portssvc.AuthSvc
	accountService portssvc.AccountSvcFacade
}

func newAuthHandler(as portssvc.AuthSvc, acc portssvc.AccountSvcFacade) *authHandler {
	return &authHandler{authService: as, accountService: acc}
}

// registerAuthRoutes sets up the public authentication routes. Login is rate limited per client IP.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimit gin.HandlerFunc) {
	h := newAuthHandler(services.Auth, services.Account)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", loginLimit, h.login)
	}
}

// register godoc
// @Summary Register a new account
// @Description Creates a tenant or landlord account. A valid referral code credits the referrer.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register account")
		return
	}

	token, err := h.authService.GenerateToken(account)
	if err != nil {
		respondError(c, err, "Failed to issue token")
		return
	}

	logger.Info("Account registered", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.LoginResponse{Token: token, Account: dto.ToAccountResponse(account)})
}

// login godoc
// @Summary Account login
// @Description Authenticates an account and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, account, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, Account: dto.ToAccountResponse(account)})
}
