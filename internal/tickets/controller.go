package tickets

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

// Purchase godoc
// @Summary Buy tickets for an event
// @Description Enforces the venue capacity and the per-user limit of 4 units per event
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body TicketRequest true "Quantity and type"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/tickets [post]
func (ctrl *Controller) Purchase(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	ticket, err := ctrl.service.Purchase(c.Request.Context(), userID, eventID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to purchase tickets")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Tickets purchased successfully", ticket, nil)
}

// Edit godoc
// @Summary Change quantity or type of an owned ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param code path string true "Ticket code"
// @Param body body TicketRequest true "Quantity and type"
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /tickets/{code} [put]
func (ctrl *Controller) Edit(c *gin.Context) {
	code, ok := params.UUID(c, "code")
	if !ok {
		return
	}

	var req TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	ticket, err := ctrl.service.Edit(c.Request.Context(), userID, code, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to update ticket")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket updated successfully", ticket, nil)
}

func (ctrl *Controller) Delete(c *gin.Context) {
	code, ok := params.UUID(c, "code")
	if !ok {
		return
	}

	actorID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), actorID, code); err != nil {
		ctrl.handleError(c, err, "Failed to delete ticket")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket deleted successfully", nil, nil)
}

func (ctrl *Controller) ListMine(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list tickets")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", list, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	code, ok := params.UUID(c, "code")
	if !ok {
		return
	}

	actorID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	ticket, err := ctrl.service.GetByCode(c.Request.Context(), actorID, code)
	if err != nil {
		ctrl.handleError(c, err, "Failed to get ticket")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket retrieved successfully", ticket, nil)
}

func (ctrl *Controller) ListByEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.service.ListByEvent(c.Request.Context(), organizerID, eventID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list event tickets")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", list, nil)
}

func (ctrl *Controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrTicketNotFound), errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotTicketOwner), errors.Is(err, ErrForbidden), errors.Is(err, ErrNotEventOrganizer):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrUserQuotaExceeded), errors.Is(err, ErrEventNotOnSale):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
