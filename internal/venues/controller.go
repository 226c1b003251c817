package venues

import (
	"errors"
	"net/http"

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
// @Summary Create a venue
// @Tags venues
// @Accept json
// @Produce json
// @Param body body VenueRequest true "Venue"
// @Success 201 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /venues [post]
func (c *Controller) Create(ctx *gin.Context) {
	var req VenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err, "Failed to create venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Venue created successfully", venue.ToResponse(), nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	var req VenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	venue, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err, "Failed to update venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue updated successfully", venue.ToResponse(), nil)
}

// List godoc
// @Summary List active venues
// @Tags venues
// @Produce json
// @Success 200 {object} response.StandardApiResponse
// @Router /venues [get]
func (c *Controller) List(ctx *gin.Context) {
	venues, err := c.service.List(ctx.Request.Context())
	if err != nil {
		c.handleError(ctx, err, "Failed to list venues")
		return
	}

	out := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		out = append(out, venues[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Venues retrieved successfully", out, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	venue, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err, "Failed to get venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue retrieved successfully", venue.ToResponse(), nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.SoftDelete(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err, "Failed to delete venue")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Venue deleted successfully", nil, nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error, message string) {
	if response.RespondValidation(ctx, err) {
		return
	}
	switch {
	case errors.Is(err, ErrVenueNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrVenueInUse), errors.Is(err, ErrCapacityBelowSold):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		c.log.LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
