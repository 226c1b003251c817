package categories

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

func (c *Controller) Create(ctx *gin.Context) {
	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	category, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err, "Failed to create category")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Category created successfully", category, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	category, err := c.service.Update(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err, "Failed to update category")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category updated successfully", category, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err, "Failed to delete category")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category deleted successfully", nil, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	category, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err, "Failed to get category")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	rows, err := c.service.List(ctx.Request.Context())
	if err != nil {
		c.handleError(ctx, err, "Failed to list categories")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Categories retrieved successfully", rows, nil)
}

func (c *Controller) ListActive(ctx *gin.Context) {
	rows, err := c.service.ListActive(ctx.Request.Context())
	if err != nil {
		c.handleError(ctx, err, "Failed to list categories")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Active categories retrieved successfully", rows, nil)
}

func (c *Controller) Events(ctx *gin.Context) {
	id, ok := params.UUID(ctx, "id")
	if !ok {
		return
	}

	events, err := c.service.EventsOf(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err, "Failed to list category events")
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category events retrieved successfully", events, nil)
}

func (c *Controller) handleError(ctx *gin.Context, err error, message string) {
	if response.RespondValidation(ctx, err) {
		return
	}
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrCategoryInUse), errors.Is(err, ErrCategoryActive):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		c.log.LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, message, nil, nil)
	}
}
