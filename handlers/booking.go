// File: handlers/booking.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"museumgate/services/booking"
	"museumgate/utils"
)

// BookingHandler exposes the staff-facing booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// GetBooking handles GET /api/slots/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err == booking.ErrNotFound {
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings handles GET /api/slots/bookings?date=YYYY-MM-DD.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing date", "query parameter date is required (YYYY-MM-DD)")
		return
	}
	bookings, err := h.Service.ListBookings(c.Request.Context(), date)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "bookings": bookings})
}

// ApproveBooking handles PUT /api/slots/bookings/:id/approve.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	err := h.Service.ApproveBooking(c.Request.Context(), c.Param("id"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case booking.ErrNotFound:
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
	case booking.ErrInvalidTransition:
		utils.JSONErrorCode(c, http.StatusConflict, "invalid_transition", "Only pending bookings can be approved")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to approve booking", err.Error())
	}
}

// CancelBooking handles PUT /api/slots/bookings/:id/cancel. Cancellation
// frees the party's capacity and invalidates outstanding tokens.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	err := h.Service.CancelBooking(c.Request.Context(), c.Param("id"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case booking.ErrNotFound:
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
	case booking.ErrInvalidTransition:
		utils.JSONErrorCode(c, http.StatusConflict, "invalid_transition", "Only pending or approved bookings can be cancelled")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel booking", err.Error())
	}
}

// PurgeBooking handles DELETE /api/slots/bookings/:id.
func (h *BookingHandler) PurgeBooking(c *gin.Context) {
	err := h.Service.PurgeBooking(c.Request.Context(), c.Param("id"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case booking.ErrNotFound:
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to purge booking", err.Error())
	}
}

// BookingQR handles GET /api/bookings/:id/qr and streams the primary
// visitor's check-in code as PNG.
func (h *BookingHandler) BookingQR(c *gin.Context) {
	png, err := h.Service.BookingQR(c.Request.Context(), c.Param("id"))
	if err == booking.ErrNotFound {
		utils.JSONError(c, http.StatusNotFound, "booking not found", c.Param("id"))
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to render QR code", err.Error())
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
