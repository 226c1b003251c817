package surveys

import (
	"errors"
	"net/http"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/params"
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

// Submit godoc
// @Summary Answer the satisfaction survey of a ticket
// @Tags surveys
// @Accept json
// @Produce json
// @Param code path string true "Ticket code"
// @Param body body SurveyRequest true "Score and comment"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /tickets/{code}/survey [post]
func (ctrl *Controller) Submit(c *gin.Context) {
	code, ok := params.UUID(c, "code")
	if !ok {
		return
	}

	var req SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	survey, err := ctrl.service.Submit(c.Request.Context(), userID, code, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to submit survey")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Thanks for answering the survey", survey, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	code, ok := params.UUID(c, "code")
	if !ok {
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	survey, err := ctrl.service.GetForTicket(c.Request.Context(), userID, code)
	if err != nil {
		ctrl.handleError(c, err, "Failed to get survey")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Survey retrieved successfully", survey, nil)
}

func (ctrl *Controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrTicketNotFound), errors.Is(err, ErrSurveyNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotTicketOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrSurveyExists):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
