package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/services"
	"lexportal_backend/internal/services/dto"
)

type CatalogHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

// ListServices is the public landing-page card list.
// GET /api/v1/services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalogService.ListServices(c.Query("type"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

// CreateAppointment books a consultation slot for the caller.
// POST /api/v1/appointments
func (h *CatalogHandler) CreateAppointment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.catalogService.CreateAppointment(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListAppointments returns the caller's appointments.
// GET /api/v1/appointments
func (h *CatalogHandler) ListAppointments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	appointments, err := h.catalogService.ListAppointments(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// ListUpcoming is the office-side calendar feed.
// GET /api/v1/staff/appointments
func (h *CatalogHandler) ListUpcoming(c *gin.Context) {
	limit := ParseQueryInt(c, "limit", 50)

	appointments, err := h.catalogService.ListUpcoming(limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

// CancelAppointment removes one of the caller's appointments.
// DELETE /api/v1/appointments/:id
func (h *CatalogHandler) CancelAppointment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.catalogService.CancelAppointment(c.Param("id"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}
