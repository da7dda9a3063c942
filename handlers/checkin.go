// File: handlers/checkin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"museumgate/services/checkin"
	"museumgate/utils"
)

// CheckInHandler exposes the scan and manual-entry endpoints. Both return the
// same result shape; expected outcomes are 200s with success:false and a
// stable code, never 4xx.
type CheckInHandler struct {
	Service checkin.CheckInService
}

func NewCheckInHandler(svc checkin.CheckInService) *CheckInHandler {
	return &CheckInHandler{Service: svc}
}

// Scan handles POST /api/checkin { payload }.
func (h *CheckInHandler) Scan(c *gin.Context) {
	var input struct {
		Payload string `json:"payload" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Service.Dispatch(c.Request.Context(), input.Payload)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to process", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// Manual handles POST /api/checkin/manual { code } — the typed fallback when
// the camera cannot read a code.
func (h *CheckInHandler) Manual(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Service.ResolveManual(c.Request.Context(), input.Code)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to process", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}
