// File: handlers/token.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"museumgate/models"
	"museumgate/services/token"
	"museumgate/utils"
)

// TokenHandler exposes the supplementary-details form endpoints.
type TokenHandler struct {
	Service token.TokenService
}

func NewTokenHandler(svc token.TokenService) *TokenHandler {
	return &TokenHandler{Service: svc}
}

// Resolve handles GET /api/additional-visitors/:token. An expired token is
// still a 200: the visit details stay visible, only the form is closed.
func (h *TokenHandler) Resolve(c *gin.Context) {
	info, err := h.Service.Resolve(c.Request.Context(), c.Param("token"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, info)
	case token.ErrInvalid:
		utils.JSONErrorCode(c, http.StatusNotFound, "invalid_token", "This link is not valid")
	case token.ErrBookingCancelled:
		utils.JSONErrorCode(c, http.StatusGone, "cancelled", "The booking behind this link was cancelled")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve token", err.Error())
	}
}

// Complete handles PUT /api/additional-visitors/:token. Strictly one-shot;
// institution and purpose in the body are ignored by design of the model.
func (h *TokenHandler) Complete(c *gin.Context) {
	var details models.VisitorDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	err := h.Service.Complete(c.Request.Context(), c.Param("token"), details)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case token.ErrInvalid:
		utils.JSONErrorCode(c, http.StatusNotFound, "invalid_token", "This link is not valid")
	case token.ErrExpired:
		utils.JSONErrorCode(c, http.StatusGone, "expired", "The details form for this visit has closed; your QR code remains valid for check-in")
	case token.ErrAlreadyCompleted:
		utils.JSONErrorCode(c, http.StatusConflict, "already_completed", "Details for this visitor were already submitted")
	case token.ErrBookingCancelled:
		utils.JSONErrorCode(c, http.StatusGone, "cancelled", "The booking behind this link was cancelled")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to complete details", err.Error())
	}
}
