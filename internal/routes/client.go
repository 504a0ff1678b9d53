package routes

import (
	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/handlers"
	"lexportal_backend/internal/middleware"
	"lexportal_backend/internal/services"
)

// registerClientRoutes covers the authenticated portal. The account gate
// sits after auth so that gated users are redirected to their agreement
// step on every request.
func registerClientRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, container *services.ServiceContainer) {
	client := api.Group("")
	client.Use(middleware.AuthMiddleware())
	client.Use(middleware.AccountGateMiddleware(container.UserRepo, container.AgreementService))
	{
		client.POST("/auth/logout", h.AuthHandler.Logout)

		client.GET("/dashboard", h.UserHandler.Dashboard)
		client.GET("/suspended", h.UserHandler.Suspended)
		client.GET("/profile", h.UserHandler.GetProfile)
		client.PUT("/profile", h.UserHandler.UpdateProfile)

		client.GET("/cases", h.CaseHandler.List)
		client.POST("/cases", h.CaseHandler.Create)
		client.GET("/cases/:id", h.CaseHandler.Get)
		client.POST("/cases/:id/replies", h.CaseHandler.Reply)

		client.GET("/agreement/:token", h.AgreementHandler.Get)
		client.POST("/agreement/:token", h.AgreementHandler.Accept)
		client.GET("/payment/:token", h.AgreementHandler.PaymentView)
		client.POST("/payment/:token", h.AgreementHandler.SubmitReceipt)
		client.GET("/payment/:token/pending", h.AgreementHandler.PaymentPending)
		client.GET("/payment/:token/success", h.AgreementHandler.PaymentSuccess)

		client.GET("/messages", h.MessageHandler.List)
		client.POST("/messages", h.MessageHandler.Send)
		client.GET("/documents", h.MessageHandler.ListDocuments)
		client.GET("/documents/:id/download", h.MessageHandler.DownloadDocument)

		client.GET("/appointments", h.CatalogHandler.ListAppointments)
		client.POST("/appointments", h.CatalogHandler.CreateAppointment)
		client.DELETE("/appointments/:id", h.CatalogHandler.CancelAppointment)
	}
}
