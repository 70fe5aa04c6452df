package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santoso/presensia/internal/app/models/dto"
	"github.com/santoso/presensia/internal/app/services"
	"github.com/santoso/presensia/internal/middleware"
	"github.com/santoso/presensia/internal/pkg/apperrors"
)

// AuthController handles operator authentication endpoints
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login handles POST /auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, apperrors.NewBadRequestError(err.Error()))
		return
	}

	resp, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
