package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"palboti_backend/internal/services"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

// refreshCookieName is the cookie carrying the refresh token between
// browser and API.
const refreshCookieName = "jwt"

type AuthHandler struct {
	BaseHandler
	auth services.AuthService
}

func NewAuthHandler(base BaseHandler, auth services.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
	rg.POST("/send-verification-email", h.SendVerificationEmail)
	rg.POST("/verify-email", h.VerifyEmail)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, maxAge, "/", "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken.Token, resp.RefreshToken.ExpiresAt)
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), h.GetDB(c), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken.Token, resp.RefreshToken.ExpiresAt)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)

	if err := h.auth.Logout(c.Request.Context(), h.GetDB(c), token); err != nil {
		h.clearRefreshCookie(c)
		h.HandleServiceError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), h.GetDB(c), token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.HandleServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, resp.RefreshToken.Token, resp.RefreshToken.ExpiresAt)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), h.GetDB(c), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "If the account exists, a reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), h.GetDB(c), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}

func (h *AuthHandler) SendVerificationEmail(c *gin.Context) {
	var req dto.SendVerificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.auth.SendVerificationEmail(c.Request.Context(), h.GetDB(c), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Verification email sent"})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), h.GetDB(c), req.Token); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
