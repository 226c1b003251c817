package categories

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCategoryRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	public := rg.Group("/categories")
	{
		public.GET("", controller.List)              // GET /api/v1/categories
		public.GET("/active", controller.ListActive) // GET /api/v1/categories/active
		public.GET("/:id", controller.Get)           // GET /api/v1/categories/:id
		public.GET("/:id/events", controller.Events) // GET /api/v1/categories/:id/events
	}

	manage := rg.Group("/categories")
	manage.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		manage.POST("", controller.Create)
		manage.PUT("/:id", controller.Update)
		manage.DELETE("/:id", controller.Delete)
	}
}
