package utils

import (
	"context"
	"net/http"
	"time"

	"museumgate/database"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness of the server and its backing stores.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"server": "ok"}

	if database.MongoClient != nil {
		if err := database.MongoClient.Ping(ctx, nil); err != nil {
			checks["mongo"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["mongo"] = "ok"
		}
	}
	if CacheClient != nil {
		if err := CacheClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	c.JSON(status, checks)
}
