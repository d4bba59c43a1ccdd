package routes

import (
	"net/http"

	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the whole HTTP API under /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, guards handlers.Guards) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, guards)
		appHandlers.CompanyHandler.RegisterRoutes(api, guards)
		appHandlers.JobHandler.RegisterRoutes(api, guards)
		appHandlers.ApplicationHandler.RegisterRoutes(api, guards)
		appHandlers.DocumentHandler.RegisterRoutes(api, guards)
		appHandlers.SavedJobHandler.RegisterRoutes(api, guards)

		if appHandlers.FileHandler != nil {
			appHandlers.FileHandler.RegisterRoutes(api, guards)
			logger.Info("Local file route /api/v1/files registered")
		}
	}
}
