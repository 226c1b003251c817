package surveys

import (
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSurveyRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	surveys := rg.Group("/tickets/:code/survey")
	surveys.Use(middleware.JWTAuthWithConfig(cfg))
	{
		surveys.POST("", controller.Submit) // POST /api/v1/tickets/:code/survey
		surveys.GET("", controller.Get)     // GET /api/v1/tickets/:code/survey
	}
}
