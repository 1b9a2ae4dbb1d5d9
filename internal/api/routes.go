package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloomiox/resusbih/internal/config"
	"github.com/bloomiox/resusbih/internal/handler"
)

// SetupRoutes wires the preview dispatcher onto the configured article route
// and forwards every other path to the SPA origin unmodified.
func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	previewHandler *handler.PreviewHandler,
	passthrough http.Handler,
) {
	healthHandler := handler.NewHealthHandler(cfg.Service.Name, cfg.Service.Version)
	router.GET("/health", healthHandler.HealthCheck)

	router.GET(cfg.Preview.Route, previewHandler.Handle)
	router.HEAD(cfg.Preview.Route, previewHandler.Handle)

	// Everything else is origin traffic: assets, the SPA bundle, other pages.
	router.NoRoute(func(c *gin.Context) {
		passthrough.ServeHTTP(c.Writer, c.Request)
	})
}
