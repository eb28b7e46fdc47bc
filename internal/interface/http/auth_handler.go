package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-user-identity/internal/application"
	"github.com/oksasatya/go-user-identity/internal/interface/middleware"
	"github.com/oksasatya/go-user-identity/pkg/response"
	"github.com/oksasatya/go-user-identity/pkg/validation"
)

// AuthHandler covers email verification. Tokens are issued by the service
// (also automatically on registration), are single use, and live only in
// Redis.
type AuthHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *userapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

// VerifyInit POST /api/v1/auth/verify/init (auth required)
// Re-issues a short-lived token and mails it to the account's address.
func (h *AuthHandler) VerifyInit(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	issued, err := h.Svc.IssueEmailVerification(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if !issued {
		response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "already verified", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "verification sent", map[string]any{"expires_in": userapp.VerifyTokenTTL.String()})
}

// VerifyConfirm POST /api/v1/auth/verify/confirm {token}
func (h *AuthHandler) VerifyConfirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if _, err := h.Svc.ConfirmEmailVerification(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, userapp.ErrVerificationToken) {
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		writeDomainError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"verified": true}, "email verified", nil)
}
