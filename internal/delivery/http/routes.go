package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prathamesh1010/Paras-Wires/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware. The logger wraps recovery so panicking requests are still logged.
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)
		api.POST("/search-datasheets", handler.SearchDatasheets)
		api.POST("/get-datasheet", handler.GetDatasheet)
		api.POST("/integrate-datasheet", handler.IntegrateDatasheet)
		api.POST("/auto-generate-report", handler.AutoGenerateReport)
		api.GET("/test-connection", handler.TestConnection)
	}

	// Legacy endpoints kept for the existing frontend
	router.GET("/sheet-data", handler.SheetData)
	router.GET("/list-sheets", handler.ListSheets)
	router.GET("/list-sheets/:spreadsheet_id", handler.ListSpreadsheetSheets)

	return router
}
