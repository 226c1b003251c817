package ratings

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRatingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	rg.GET("/events/:id/ratings", middleware.OptionalAuthWithConfig(cfg), controller.ListByEvent) // GET /api/v1/events/:id/ratings
	rg.POST("/events/:id/ratings", middleware.JWTAuthWithConfig(cfg), controller.Create)          // POST /api/v1/events/:id/ratings

	ratings := rg.Group("/ratings")
	ratings.Use(middleware.JWTAuthWithConfig(cfg))
	{
		ratings.PUT("/:id", controller.Update)    // PUT /api/v1/ratings/:id
		ratings.DELETE("/:id", controller.Delete) // DELETE /api/v1/ratings/:id
	}
}
