package analytics

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	organizer := rg.Group("/organizer")
	organizer.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizer.GET("/dashboard", controller.GetOrganizerDashboard) // GET /api/v1/organizer/dashboard
	}
}
