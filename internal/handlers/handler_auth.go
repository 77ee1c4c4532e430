package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jmcduran/requisition_mgmt_app/internal/apperrors"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// authHandler handles credential verification endpoints.
type authHandler struct {
	tokenService portssvc.TokenSvcFacade
}

func newAuthHandler(tokenService portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{tokenService: tokenService}
}

// login godoc
// @Summary Log in with email and password
// @Description Verifies the credential pair and issues a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Access token and principal identity"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.tokenService.Login(c.Request.Context(), req)
	if err != nil {
		// A missing account and a wrong password look the same to the caller.
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login rejected", slog.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	logger.Info("Login succeeded", slog.String("email", resp.Email))
	c.JSON(http.StatusOK, resp)
}

// loginWithGoogle godoc
// @Summary Log in with a Google ID token
// @Description Validates a Google-issued ID token for an institutional account and issues a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body dto.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse "Access token and principal identity"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid token or unknown account"
// @Router /auth/google [post]
func (h *authHandler) loginWithGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for google login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.tokenService.LoginWithGoogle(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Google login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Google login failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	logger.Info("Google login succeeded", slog.String("email", resp.Email))
	c.JSON(http.StatusOK, resp)
}

// loginWithGoogleCode godoc
// @Summary Log in by exchanging a Google authorization code
// @Description Exchanges the frontend's authorization code with Google, validates the returned ID token and issues a JWT access token
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.GoogleCodeLoginRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse "Access token and principal identity"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid or expired authorization code"
// @Router /auth/google/exchange-code [post]
func (h *authHandler) loginWithGoogleCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GoogleCodeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for google code exchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	resp, err := h.tokenService.LoginWithGoogleCode(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Google code exchange rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	logger.Info("Google code exchange succeeded", slog.String("email", resp.Email))
	c.JSON(http.StatusOK, resp)
}

// registerAuthRoutes registers the public authentication routes. Login
// attempts are rate limited per client IP.
func registerAuthRoutes(r *gin.Engine, tokenService portssvc.TokenSvcFacade) {
	h := newAuthHandler(tokenService)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/google", limitMiddleware, h.loginWithGoogle)
		auth.POST("/google/exchange-code", limitMiddleware, h.loginWithGoogleCode)
	}
}
