package refunds

import (
	"context"
	"errors"
	"net/http"

	"eventhub/internal/shared/middleware"
	"eventhub/internal/shared/utils/params"
	"eventhub/internal/shared/utils/response"
	"eventhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
	log     *logger.Logger
}

func NewController(service Service, log *logger.Logger) *Controller {
	return &Controller{service: service, log: log}
}

// Create godoc
// @Summary Request a refund for a ticket
// @Description A user may have only one pending request at a time
// @Tags refunds
// @Accept json
// @Produce json
// @Param body body CreateRefundRequest true "Refund request"
// @Success 201 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /refunds [post]
func (ctrl *Controller) Create(c *gin.Context) {
	var req CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	refund, err := ctrl.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to create refund request")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Refund request created successfully", refund, nil)
}

func (ctrl *Controller) Pending(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	pending, err := ctrl.service.HasActivePendingRefund(c.Request.Context(), userID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to check refund requests")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Pending status retrieved successfully", PendingStatus{HasPending: pending}, nil)
}

func (ctrl *Controller) ListMine(c *gin.Context) {
	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list refund requests")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund requests retrieved successfully", list, nil)
}

// Update godoc
// @Summary Edit a pending refund request
// @Tags refunds
// @Accept json
// @Produce json
// @Param id path string true "Refund request ID"
// @Param body body UpdateRefundRequest true "Reason and details"
// @Success 200 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /refunds/{id} [put]
func (ctrl *Controller) Update(c *gin.Context) {
	refundID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	var req UpdateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	refund, err := ctrl.service.Update(c.Request.Context(), userID, refundID, req)
	if err != nil {
		ctrl.handleError(c, err, "Failed to update refund request")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund request updated successfully", refund, nil)
}

func (ctrl *Controller) Delete(c *gin.Context) {
	refundID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, refundID); err != nil {
		ctrl.handleError(c, err, "Failed to delete refund request")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund request deleted successfully", nil, nil)
}

func (ctrl *Controller) ListForOrganizer(c *gin.Context) {
	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	list, err := ctrl.service.ListForOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to list refund requests")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Refund requests retrieved successfully", list, nil)
}

// Approve godoc
// @Summary Approve a pending refund request
// @Tags refunds
// @Produce json
// @Param id path string true "Refund request ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /organizer/refunds/{id}/approve [post]
func (ctrl *Controller) Approve(c *gin.Context) {
	ctrl.decide(c, ctrl.service.Approve, "Refund request approved")
}

// Reject godoc
// @Summary Reject a pending refund request
// @Tags refunds
// @Produce json
// @Param id path string true "Refund request ID"
// @Success 200 {object} response.StandardApiResponse
// @Failure 409 {object} response.StandardApiResponse
// @Security BearerAuth
// @Router /organizer/refunds/{id}/reject [post]
func (ctrl *Controller) Reject(c *gin.Context) {
	ctrl.decide(c, ctrl.service.Reject, "Refund request rejected")
}

type decision func(ctx context.Context, organizerID, refundID uuid.UUID) (*RefundRequest, error)

func (ctrl *Controller) decide(c *gin.Context, fn decision, message string) {
	refundID, ok := params.UUID(c, "id")
	if !ok {
		return
	}

	organizerID, ok := middleware.MustUserID(c)
	if !ok {
		return
	}

	refund, err := fn(c.Request.Context(), organizerID, refundID)
	if err != nil {
		ctrl.handleError(c, err, "Failed to decide refund request")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, message, refund, nil)
}

func (ctrl *Controller) handleError(c *gin.Context, err error, message string) {
	if response.RespondValidation(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrRefundNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotRefundOwner), errors.Is(err, ErrNotEventOrganizer):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrPendingRefundExists), errors.Is(err, ErrRefundAlreadyDecided):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
