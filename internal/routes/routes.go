package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lexportal_backend/internal/handlers"
	"lexportal_backend/internal/middleware"
	"lexportal_backend/internal/services"
)

// RegisterRoutes wires the full HTTP surface: public endpoints, the
// authenticated client portal behind the account gate, and the staff area.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	container *services.ServiceContainer,
) {
	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := ginRouter.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(container.Limiter, container.AuditService))

	registerPublicRoutes(api, appHandlers)
	registerClientRoutes(api, appHandlers, container)
	registerStaffRoutes(api, appHandlers)
}
