package tickets

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	eventTickets := rg.Group("/events/:id/tickets")
	eventTickets.Use(middleware.JWTAuthWithConfig(cfg))
	{
		eventTickets.POST("", controller.Purchase)                                  // POST /api/v1/events/:id/tickets
		eventTickets.GET("", middleware.RequireOrganizer(), controller.ListByEvent) // GET /api/v1/events/:id/tickets
	}

	tickets := rg.Group("/tickets")
	tickets.Use(middleware.JWTAuthWithConfig(cfg))
	{
		tickets.GET("", controller.ListMine)        // GET /api/v1/tickets
		tickets.GET("/:code", controller.Get)       // GET /api/v1/tickets/:code
		tickets.PUT("/:code", controller.Edit)      // PUT /api/v1/tickets/:code
		tickets.DELETE("/:code", controller.Delete) // DELETE /api/v1/tickets/:code
	}
}
