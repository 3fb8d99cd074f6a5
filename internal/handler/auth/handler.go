// Package auth exposes the login, token and password endpoints.
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/middleware"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/internal/service/auth"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type Handler struct {
	auth *auth.Service
}

func NewHandler(authSvc *auth.Service) *Handler {
	return &Handler{auth: authSvc}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tokens, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, tokens)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, tokens)
}

func (h *Handler) Revoke(c *gin.Context) {
	var req model.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	if err := h.auth.Revoke(c.Request.Context(), req.Email); err != nil {
		handler.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePassword acts on the authenticated user only.
func (h *Handler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization token"))
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BindError(c, err)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), claims.UserID, &req); err != nil {
		handler.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
