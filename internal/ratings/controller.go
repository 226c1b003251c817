package ratings

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

// Create godoc
// @Summary Rate an event
// @Description One current rating per user and event
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body RatingRequest true "Rating"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/ratings [post]
func (ctrl *Controller) Create(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	rating, err := ctrl.service.Create(c.Request.Context(), userID, eventID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to create rating")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Rating created successfully", rating, nil)
}

func (ctrl *Controller) Update(c *gin.Context) {
	ratingID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	rating, err := ctrl.service.Update(c.Request.Context(), userID, ratingID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to update rating")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Rating updated successfully", rating, nil)
}

func (ctrl *Controller) Delete(c *gin.Context) {
	ratingID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if err := ctrl.service.SoftDelete(c.Request.Context(), actorID, ratingID); err != nil {
		ctrl.handleError(c, err, "Failed to delete rating")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Rating deleted successfully", nil, nil)
}

// ListByEvent godoc
// @Summary Current ratings of an event with average and count
// @Tags ratings
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id}/ratings [get]
func (ctrl *Controller) ListByEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	list, err := ctrl.service.ListByEvent(c.Request.Context(), middleware.OptionalUserID(c), eventID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list ratings")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ratings retrieved successfully", list, nil)
}

func (ctrl *Controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrRatingNotFound), errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotRatingOwner), errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrRatingExists):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
