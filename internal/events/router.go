package events

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public browsing, identity is used when present
	publicEvents := router.Group("/events")
	publicEvents.Use(middleware.OptionalAuthWithConfig(cfg))
	{
		publicEvents.GET("", controller.GetAllEvents) // GET /api/v1/events
		publicEvents.GET("/:id", controller.GetEvent) // GET /api/v1/events/:id
	}

	userEvents := router.Group("/events")
	userEvents.Use(middleware.JWTAuthWithConfig(cfg))
	{
		userEvents.GET("/:id/countdown", controller.GetCountdown) // GET /api/v1/events/:id/countdown
	}

	organizerEvents := router.Group("/events")
	organizerEvents.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizerEvents.POST("", controller.CreateEvent)       // POST /api/v1/events
		organizerEvents.PUT("/:id", controller.UpdateEvent)    // PUT /api/v1/events/:id
		organizerEvents.DELETE("/:id", controller.DeleteEvent) // DELETE /api/v1/events/:id
	}
}
