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

// MappingController handles the identity-reconciliation endpoints
type MappingController struct {
	mappingService *services.MappingService
}

// NewMappingController creates a new mapping controller
func NewMappingController(mappingService *services.MappingService) *MappingController {
	return &MappingController{mappingService: mappingService}
}

// RunAutoMapping handles POST /mappings/auto
func (ctrl *MappingController) RunAutoMapping(c *gin.Context) {
	var req dto.AutoMapRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	result, err := ctrl.mappingService.RunAutoMapping(c.Request.Context(), req.Threshold)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ListUnmapped handles GET /mappings/unmapped
func (ctrl *MappingController) ListUnmapped(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := ctrl.mappingService.ListUnmapped(c.Request.Context(), int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      users,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// ListMappings handles GET /mappings?status=suggested
func (ctrl *MappingController) ListMappings(c *gin.Context) {
	status := models.MappingStatus(c.DefaultQuery("status", string(models.MappingSuggested)))
	if status != models.MappingSuggested && status != models.MappingVerified {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("status must be suggested or verified"))
		return
	}

	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	mappings, total, err := ctrl.mappingService.ListMappings(c.Request.Context(), status, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedResponse{
		Items:      mappings,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// GetStats handles GET /mappings/stats
func (ctrl *MappingController) GetStats(c *gin.Context) {
	stats, err := ctrl.mappingService.GetStats(c.Request.Context())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// VerifyMapping handles PUT /mappings/:id/verify
func (ctrl *MappingController) VerifyMapping(c *gin.Context) {
	mappingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("invalid mapping id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=verified rejected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	actor := middleware.ActorUsername(c)
	if err := ctrl.mappingService.VerifyMapping(c.Request.Context(), mappingID, actor, req.Status); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "mapping " + req.Status}))
}

// BulkVerify handles POST /mappings/verify
func (ctrl *MappingController) BulkVerify(c *gin.Context) {
	var req dto.BulkVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	actor := middleware.ActorUsername(c)
	result := ctrl.mappingService.BulkVerify(c.Request.Context(), &req, actor)

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
