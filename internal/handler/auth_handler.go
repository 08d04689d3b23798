package handler

import (
	"errors"
	"net/http"

	"github.com/cropsight/auth-service/internal/dto"
	"github.com/cropsight/auth-service/internal/repository"
	"github.com/cropsight/auth-service/internal/service"
	"github.com/cropsight/auth-service/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response messages. The forgot-password message is identical whether or not
// the account exists; the login message is identical for every credential
// failure.
const (
	msgMissingFields      = "All fields are required"
	msgMissingCredentials = "Email and password are required"
	msgWeakPassword       = "Password must be at least 6 characters"
	msgDuplicateEmail     = "An account with this email already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgMissingAccessToken = "Access token is required"
	msgInvalidGoogleToken = "Invalid Google token"
	msgGoogleEmailMissing = "Could not retrieve email from Google"
	msgUserNotFound       = "User not found"
	msgMissingEmail       = "Email is required"
	msgRateLimited        = "Too many requests. Please wait a minute and try again."
	msgResetLinkSent      = "If an account with that email exists, a reset link has been sent."
	msgMissingTokenFields = "Token and new password are required"
	msgInvalidResetToken  = "Invalid or expired reset link. Please request a new one."
	msgPasswordResetDone  = "Password reset successful. You can now log in with your new password."
	msgServerError        = "Server error. Please try again."
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingFields})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingFields})
		return
	}

	if !utils.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgWeakPassword})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgDuplicateEmail})
			return
		}
		h.serverError(c, "register failed", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingCredentials})
		return
	}

	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingCredentials})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidCredentials})
			return
		}
		h.serverError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleAuth handles POST /auth/google
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingAccessToken})
		return
	}

	if req.AccessToken == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingAccessToken})
		return
	}

	resp, err := h.authService.GoogleAuth(c.Request.Context(), req.AccessToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msgInvalidGoogleToken})
		case errors.Is(err, service.ErrGoogleEmailMissing):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgGoogleEmailMissing})
		default:
			h.serverError(c, "google auth failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe handles GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msgUnauthorized})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgUserNotFound})
			return
		}
		h.serverError(c, "get user failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ForgotPassword handles POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingEmail})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingEmail})
		return
	}

	err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{Error: msgRateLimited})
			return
		}
		h.serverError(c, "forgot password failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgResetLinkSent})
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingTokenFields})
		return
	}

	if req.Token == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgMissingTokenFields})
		return
	}

	if !utils.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgWeakPassword})
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidResetToken})
			return
		}
		h.serverError(c, "reset password failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgPasswordResetDone})
}

// serverError logs the full failure detail server-side and returns a generic
// 500 with nothing internal leaked.
func (h *AuthHandler) serverError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg,
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: msgServerError})
}
