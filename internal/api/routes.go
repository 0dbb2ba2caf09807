// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, plotsDir string) {
	e.HTTPErrorHandler = ErrorHandler

	// Core analysis endpoints, kept at the root for frontend compatibility.
	e.POST("/upload", h.HandleUpload)
	e.GET("/ask", h.HandleAsk)
	e.POST("/generate_chart", h.HandleGenerateChart)

	// Generated plot images.
	e.Static("/plots", plotsDir)

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.GET("/dataset", h.HandleDatasetInfo)
	apiGroup.GET("/dataset/preview", h.HandleDatasetPreview)
	apiGroup.GET("/dataset/preview/msgpack", h.HandleDatasetPreviewMsgpack)
	apiGroup.GET("/ws/progress", h.progress.HandleWebSocket)
}
