package routes

import (
	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/handlers"
)

func registerPublicRoutes(api *gin.RouterGroup, h *handlers.AppHandlers) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.AuthHandler.Register)
		auth.POST("/login", h.AuthHandler.Login)
		auth.POST("/refresh", h.AuthHandler.Refresh)
	}

	api.GET("/services", h.CatalogHandler.ListServices)
}
