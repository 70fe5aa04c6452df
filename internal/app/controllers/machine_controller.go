package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/services"
	"github.com/santoso/presensia/internal/middleware"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// MachineController handles terminal registry endpoints
type MachineController struct {
	machineService *services.MachineService
}

// NewMachineController creates a new machine controller
func NewMachineController(machineService *services.MachineService) *MachineController {
	return &MachineController{machineService: machineService}
}

// RegisterMachine handles POST /machines
func (ctrl *MachineController) RegisterMachine(c *gin.Context) {
	var req struct {
		MachineCode string `json:"machineCode" binding:"required"`
		Location    string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	machine, err := ctrl.machineService.RegisterMachine(c.Request.Context(), req.MachineCode, req.Location)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(machine))
}
