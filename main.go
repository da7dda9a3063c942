// File: museumgate/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"museumgate/config"
	"museumgate/cron"
	"museumgate/database"
	bookingRepoPkg "museumgate/database/repository/booking"
	slotRepoPkg "museumgate/database/repository/slot"
	tokenRepoPkg "museumgate/database/repository/token"
	"museumgate/handlers"
	"museumgate/middleware"
	"museumgate/routes"
	"museumgate/services/booking"
	"museumgate/services/checkin"
	"museumgate/services/events"
	"museumgate/services/notification"
	"museumgate/services/token"
	"museumgate/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slotRepo := slotRepoPkg.NewMongoSlotRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	tokenRepo := tokenRepoPkg.NewMongoTokenRepo()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Client: notification.NewAsynqClient(),
	}

	tokenService := &token.DefaultTokenService{
		Tokens:   tokenRepo,
		Bookings: bookingRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Slots:       slotRepo,
		Bookings:    bookingRepo,
		TokenSvc:    tokenService,
		Notifier:    notificationService,
		CacheClient: utils.GetCacheClient(),
	}

	checkInService := &checkin.DefaultCheckInService{
		Bookings: bookingRepo,
		Tokens:   tokenRepo,
		Events:   events.NewClient(),
		Notifier: notificationService,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Slots:    handlers.NewSlotHandler(bookingService),
		Bookings: handlers.NewBookingHandler(bookingService),
		CheckIn:  handlers.NewCheckInHandler(checkInService),
		Tokens:   handlers.NewTokenHandler(tokenService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the email delivery worker.
	cron.InitEmailWorker()

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
