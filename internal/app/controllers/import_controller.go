package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/services"
	"github.com/santoso/presensia/internal/middleware"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// ImportController handles the ingestion endpoints: raw logs, terminal
// user-roster sync and the master student roster. All accept a multipart
// upload under the "file" field.
type ImportController struct {
	ingestionService  *services.IngestionService
	machineService    *services.MachineService
	masterDataService *services.MasterDataService
}

// NewImportController creates a new import controller
func NewImportController(
	ingestionService *services.IngestionService,
	machineService *services.MachineService,
	masterDataService *services.MasterDataService,
) *ImportController {
	return &ImportController{
		ingestionService:  ingestionService,
		machineService:    machineService,
		masterDataService: masterDataService,
	}
}

// openUpload pulls the uploaded file out of the request. A missing file is
// a validation error, not a server error.
func openUpload(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("file upload is required"))
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("uploaded file could not be opened"))
		return nil, nil, false
	}
	return file, header, true
}

// ImportLogs handles POST /imports/logs
func (ctrl *ImportController) ImportLogs(c *gin.Context) {
	machineCode := c.PostForm("machine_code")
	if machineCode == "" {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("machine_code is required"))
		return
	}

	file, header, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := ctrl.ingestionService.ImportLogs(c.Request.Context(), machineCode, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// SyncUsers handles POST /imports/users
func (ctrl *ImportController) SyncUsers(c *gin.Context) {
	machineCode := c.PostForm("machine_code")
	if machineCode == "" {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError("machine_code is required"))
		return
	}

	file, header, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := ctrl.machineService.SyncUsers(c.Request.Context(), machineCode, header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ImportMasterData handles POST /imports/master
func (ctrl *ImportController) ImportMasterData(c *gin.Context) {
	file, header, ok := openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := ctrl.masterDataService.ImportMasterData(c.Request.Context(), header.Filename, file)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}
