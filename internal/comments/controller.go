package comments

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
// @Summary Comment on an event
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param body body CommentRequest true "Title and text"
// @Success 201 {object} response.StandardApiResponse
// @Failure 400 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /events/{id}/comments [post]
func (ctrl *Controller) Create(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	comment, err := ctrl.service.Create(c.Request.Context(), userID, eventID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to create comment")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Comment created successfully", comment, nil)
}

func (ctrl *Controller) ListByEvent(c *gin.Context) {
	eventID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	list, err := ctrl.service.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list comments")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Comments retrieved successfully", list, nil)
}

func (ctrl *Controller) Get(c *gin.Context) {
	commentID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	comment, err := ctrl.service.Get(c.Request.Context(), commentID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to get comment")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Comment retrieved successfully", comment, nil)
}

func (ctrl *Controller) Update(c *gin.Context) {
	commentID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	comment, err := ctrl.service.Update(c.Request.Context(), userID, commentID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to update comment")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Comment updated successfully", comment, nil)
}

func (ctrl *Controller) Delete(c *gin.Context) {
	commentID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	actorID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), actorID, commentID); err != nil {
		ctrl.handleError(c, err, "Failed to delete comment")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Comment deleted successfully", nil, nil)
}

func (ctrl *Controller) ListForOrganizer(c *gin.Context) {
	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.service.ListForOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list comments")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Comments retrieved successfully", list, nil)
}

func (ctrl *Controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrCommentNotFound), errors.Is(err, ErrEventNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotCommentOwner), errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
