package venues

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	venues := rg.Group("/venues")
	{
		venues.GET("", controller.List)    // GET /api/v1/venues
		venues.GET("/:id", controller.Get) // GET /api/v1/venues/:id
	}

	manage := rg.Group("/venues")
	manage.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		manage.POST("", controller.Create)       // POST /api/v1/venues
		manage.PUT("/:id", controller.Update)    // PUT /api/v1/venues/:id
		manage.DELETE("/:id", controller.Delete) // DELETE /api/v1/venues/:id
	}
}
