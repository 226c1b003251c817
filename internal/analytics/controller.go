package analytics

import (
	"net/http"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/response"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

// GetOrganizerDashboard godoc
// @Summary Sales, ratings and pending refunds per event of the caller
// @Tags analytics
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /organizer/dashboard [get]
func (ctrl *Controller) GetOrganizerDashboard(c *gin.Context) {
	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	dashboard, err := ctrl.service.OrganizerDashboard(c.Request.Context(), organizerID)
	if err != nil {
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load dashboard", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}
