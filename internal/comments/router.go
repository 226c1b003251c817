package comments

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCommentRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	eventComments := rg.Group("/events/:id/comments")
	{
		eventComments.GET("", controller.ListByEvent)                                // GET /api/v1/events/:id/comments
		eventComments.POST("", middleware.JWTAuthWithConfig(cfg), controller.Create) // POST /api/v1/events/:id/comments
	}

	comments := rg.Group("/comments")
	{
		comments.GET("/:id", controller.Get)                                          // GET /api/v1/comments/:id
		comments.PUT("/:id", middleware.JWTAuthWithConfig(cfg), controller.Update)    // PUT /api/v1/comments/:id
		comments.DELETE("/:id", middleware.JWTAuthWithConfig(cfg), controller.Delete) // DELETE /api/v1/comments/:id
	}

	organizer := rg.Group("/organizer/comments")
	organizer.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizer.GET("", controller.ListForOrganizer) // GET /api/v1/organizer/comments
	}
}
