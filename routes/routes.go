// File: routes/routes.go
package routes

import (
	"time"

	"museumgate/handlers"
	"museumgate/middleware"
	"museumgate/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handler sets the route registrars need.
type HandlerBundle struct {
	Slots    *handlers.SlotHandler
	Bookings *handlers.BookingHandler
	CheckIn  *handlers.CheckInHandler
	Tokens   *handlers.TokenHandler
}

// RegisterSlotRoutes registers the public slot listing and booking endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.GET("", hb.Slots.ListSlots)
		api.POST("/book", hb.Slots.BookSlot)

		// Staff-only booking lifecycle endpoints.
		staff := api.Group("/bookings")
		staff.Use(middleware.StaffAuthMiddleware())
		staff.GET("", hb.Bookings.ListBookings)
		staff.GET("/:id", hb.Bookings.GetBooking)
		staff.PUT("/:id/approve", hb.Bookings.ApproveBooking)
		staff.PUT("/:id/cancel", hb.Bookings.CancelBooking)
		staff.DELETE("/:id", hb.Bookings.PurgeBooking)
	}
}

// RegisterCheckInRoutes registers the gate scanner endpoints. The gate tablets
// run on the museum network; abuse is contained by the global rate limit.
func RegisterCheckInRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/checkin")
	{
		api.POST("", hb.CheckIn.Scan)
		api.POST("/manual", hb.CheckIn.Manual)
	}
}

// RegisterTokenRoutes registers the supplementary-details form endpoints.
func RegisterTokenRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/additional-visitors")
	{
		api.GET("/:token", hb.Tokens.Resolve)
		api.PUT("/:token", hb.Tokens.Complete)
	}
}

// RegisterWalkInRoutes registers the staff walk-in desk endpoint.
func RegisterWalkInRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/walkins")
	{
		api.Use(middleware.StaffAuthMiddleware())
		api.POST("", hb.Slots.RegisterWalkIn)
	}
}

// RegisterBookingQRRoute registers the printable QR endpoint.
func RegisterBookingQRRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/bookings/:id/qr", hb.Bookings.BookingQR)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", utils.HealthHandler)
}

// RegisterRoutes wires CORS and all route groups onto the engine.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r, hb)
	RegisterCheckInRoutes(r, hb)
	RegisterTokenRoutes(r, hb)
	RegisterWalkInRoutes(r, hb)
	RegisterBookingQRRoute(r, hb)
	RegisterHealthRoute(r)
}
