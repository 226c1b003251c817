package events

import (
	"errors"
	"net/http"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/params"
	"eventhub/internal/shared/utils/response"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetCountdown(c *gin.Context)
}

type controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) Controller {
	return &controller{service: service, log: log}
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events [post]
func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	event, err := ctrl.service.Create(c.Request.Context(), organizerID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to create event")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

// GetEvent godoc
// @Summary Event detail with rating summary
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.StandardApiResponse
// @Router /events/{id} [get]
func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	viewer := middleware.OptionalUserID(c)
	event, err := ctrl.service.Get(c.Request.Context(), viewer, eventID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to get event")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	event, err := ctrl.service.Update(c.Request.Context(), organizerID, eventID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to update event")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), organizerID, eventID); err != nil {
		ctrl.handleError(c, err, "Failed to delete event")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

// GetAllEvents godoc
// @Summary List events with ticket totals
// @Tags events
// @Produce json
// @Param status query string false "Status filter"
// @Param category_id query string false "Category filter"
// @Param upcoming query bool false "Only future events"
// @Success 200 {object} response.StandardApiResponse
// @Router /events [get]
func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	if query.Mine {
		organizerID := middleware.OptionalUserID(c)
		if organizerID == nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
			return
		}
		query.OrganizerID = organizerID
	}

	events, err := ctrl.service.List(c.Request.Context(), query)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list events")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", events, nil)
}

func (ctrl *controller) GetCountdown(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	countdown, err := ctrl.service.Countdown(c.Request.Context(), middleware.IsOrganizer(c), eventID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to compute countdown")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Countdown retrieved successfully", countdown, nil)
}

func (ctrl *controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotEventOrganizer), errors.Is(err, ErrCountdownOrganizer):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrEventFinished), errors.Is(err, ErrVenueTooSmall):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
