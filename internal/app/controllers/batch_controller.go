package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/santoso/presensia/internal/app/models"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/services"
	"github.com/santoso/presensia/internal/middleware"
	"github.com/santoso/presensia/internal/pkg/apperrors"
	"github.com/santoso/presensia/internal/pkg/helpers"
)

// BatchController handles import-batch administration endpoints
type BatchController struct {
	batchService *services.BatchService
}

// NewBatchController creates a new batch controller
func NewBatchController(batchService *services.BatchService) *BatchController {
	return &BatchController{batchService: batchService}
}

func batchIDParam(c *gin.Context) (int64, bool) {
	batchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("invalid batch id"))
		return 0, false
	}
	return batchID, true
}

// ListBatches handles GET /batches?source=logs
func (ctrl *BatchController) ListBatches(c *gin.Context) {
	source := models.BatchSource(c.Query("source"))
	switch source {
	case "", models.BatchSourceMaster, models.BatchSourceUsers, models.BatchSourceLogs:
	default:
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("source must be master, users or logs"))
		return
	}

	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	batches, total, err := ctrl.batchService.ListBatches(c.Request.Context(), source, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      batches,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// GetBatch handles GET /batches/:id
func (ctrl *BatchController) GetBatch(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	detail, err := ctrl.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// DeleteBatch handles DELETE /batches/:id
func (ctrl *BatchController) DeleteBatch(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	result, err := ctrl.batchService.DeleteBatch(c.Request.Context(), batchID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// RollbackBatch handles POST /batches/:id/rollback
func (ctrl *BatchController) RollbackBatch(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	result, err := ctrl.batchService.RollbackBatch(c.Request.Context(), batchID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
