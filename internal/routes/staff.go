package routes

import (
	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/handlers"
	"lexportal_backend/internal/middleware"
)

func registerStaffRoutes(api *gin.RouterGroup, h *handlers.AppHandlers) {
	staff := api.Group("/staff")
	staff.Use(middleware.AuthMiddleware())
	staff.Use(middleware.RequireStaff())
	{
		staff.GET("/templates", h.StaffHandler.ListTemplates)
		staff.POST("/templates", h.StaffHandler.CreateTemplate)
		staff.PUT("/templates/:id", h.StaffHandler.UpdateTemplate)

		staff.GET("/agreements", h.StaffHandler.ListAgreements)
		staff.POST("/agreements", h.StaffHandler.IssueAgreement)
		staff.POST("/agreements/:id/approve", h.StaffHandler.ApprovePayment)
		staff.POST("/agreements/:id/reject", h.StaffHandler.RejectPayment)
		staff.POST("/agreements/:id/expire", h.StaffHandler.ExpireAgreement)

		staff.GET("/cases", h.StaffHandler.ListCases)
		staff.GET("/cases/:id", h.StaffHandler.GetCase)
		staff.PUT("/cases/:id", h.StaffHandler.UpdateCase)
		staff.POST("/cases/:id/replies", h.StaffHandler.ReplyCase)
		staff.POST("/cases/:id/timeline", h.StaffHandler.AddTimelineEvent)

		staff.GET("/clients", h.StaffHandler.ListClients)
		staff.GET("/clients/:id", h.StaffHandler.GetClient)
		staff.GET("/clients/:id/messages", h.StaffHandler.ListClientMessages)
		staff.POST("/clients/:id/messages", h.StaffHandler.SendClientMessage)
		staff.PUT("/clients/:id/notes", h.StaffHandler.UpdateClientNotes)
		staff.GET("/clients/:id/documents", h.StaffHandler.ListClientDocuments)
		staff.POST("/clients/:id/documents", h.StaffHandler.UploadClientDocument)

		staff.GET("/appointments", h.CatalogHandler.ListUpcoming)

		staff.GET("/events", h.StaffHandler.ListEvents)
	}
}
