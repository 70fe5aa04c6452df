package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/santoso/presensia/internal/app/controllers"
	"github.com/santoso/presensia/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	machineController *controllers.MachineController,
	importController *controllers.ImportController,
	mappingController *controllers.MappingController,
	batchController *controllers.BatchController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		machines := authenticated.Group("/machines")
		{
			machines.POST("", authMiddleware.RequireAdmin(), machineController.RegisterMachine)
		}

		imports := authenticated.Group("/imports")
		{
			imports.POST("/logs", importController.ImportLogs)
			imports.POST("/users", importController.SyncUsers)
			imports.POST("/master", importController.ImportMasterData)
		}

		mappings := authenticated.Group("/mappings")
		{
			mappings.GET("", mappingController.ListMappings)
			mappings.GET("/unmapped", mappingController.ListUnmapped)
			mappings.GET("/stats", mappingController.GetStats)
			mappings.POST("/auto", mappingController.RunAutoMapping)
			mappings.POST("/verify", mappingController.BulkVerify)
			mappings.PUT("/:id/verify", mappingController.VerifyMapping)
		}

		batches := authenticated.Group("/batches")
		{
			batches.GET("", batchController.ListBatches)
			batches.GET("/:id", batchController.GetBatch)
			batches.DELETE("/:id", authMiddleware.RequireAdmin(), batchController.DeleteBatch)
			batches.POST("/:id/rollback", authMiddleware.RequireAdmin(), batchController.RollbackBatch)
		}
	}
}
