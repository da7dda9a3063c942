// File: handlers/slots.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"museumgate/models"
	"museumgate/services/booking"
	"museumgate/utils"
)

// SlotHandler exposes the slot listing and booking endpoints.
type SlotHandler struct {
	Service booking.BookingService
}

func NewSlotHandler(svc booking.BookingService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

// ListSlots handles GET /api/slots?date=YYYY-MM-DD. The lunch window is never
// part of the response.
func (h *SlotHandler) ListSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date", "query parameter date is required (YYYY-MM-DD)")
		return
	}

	slots, err := h.Service.ListSlots(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to list slots", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// BookSlot handles POST /api/slots/book. A full slot answers 409 with a
// stable capacity_exceeded code and no state change.
func (h *SlotHandler) BookSlot(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), req)
	switch err {
	case nil:
	case booking.ErrSlotFull:
		utils.JSONErrorCode(c, http.StatusConflict, "capacity_exceeded", "The selected slot is fully booked")
		return
	case booking.ErrSlotNotBookable:
		utils.JSONErrorCode(c, http.StatusBadRequest, "slot_not_bookable", "The selected slot cannot be booked")
		return
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to create booking", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": b.ID})
}

// RegisterWalkIn handles POST /api/walkins (staff). Same payload as booking,
// but approved immediately.
func (h *SlotHandler) RegisterWalkIn(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	b, err := h.Service.RegisterWalkIn(c.Request.Context(), req)
	switch err {
	case nil:
	case booking.ErrSlotFull:
		utils.JSONErrorCode(c, http.StatusConflict, "capacity_exceeded", "The selected slot is fully booked")
		return
	case booking.ErrSlotNotBookable:
		utils.JSONErrorCode(c, http.StatusBadRequest, "slot_not_bookable", "The selected slot cannot be booked")
		return
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to register walk-in", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": b})
}
