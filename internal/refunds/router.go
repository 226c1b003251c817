package refunds

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRefundRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	refunds := rg.Group("/refunds")
	refunds.Use(middleware.JWTAuthWithConfig(cfg))
	{
		refunds.POST("", controller.Create)         // POST /api/v1/refunds
		refunds.GET("", controller.ListMine)        // GET /api/v1/refunds
		refunds.GET("/pending", controller.Pending) // GET /api/v1/refunds/pending
		refunds.PUT("/:id", controller.Update)      // PUT /api/v1/refunds/:id
		refunds.DELETE("/:id", controller.Delete)   // DELETE /api/v1/refunds/:id
	}

	organizer := rg.Group("/organizer/refunds")
	organizer.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		organizer.GET("", controller.ListForOrganizer)     // GET /api/v1/organizer/refunds
		organizer.POST("/:id/approve", controller.Approve) // POST /api/v1/organizer/refunds/:id/approve
		organizer.POST("/:id/reject", controller.Reject)   // POST /api/v1/organizer/refunds/:id/reject
	}
}
