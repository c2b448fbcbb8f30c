package api

import (
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, logger *log.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger(logger))

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		owners := v1.Group("/owners/:owner")
		{
			owners.GET("/repos", handler.ListRepositories)
		}
	}

	return router
}
