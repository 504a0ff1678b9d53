package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/services"
	"lexportal_backend/internal/services/dto"
)

type CaseHandler struct {
	*BaseHandler
	caseService services.CaseService
}

func NewCaseHandler(base *BaseHandler, caseService services.CaseService) *CaseHandler {
	return &CaseHandler{
		BaseHandler: base,
		caseService: caseService,
	}
}

// Create submits a new case for the caller.
// POST /api/v1/cases
func (h *CaseHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCaseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.caseService.Create(userID, &req, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// List returns the caller's cases.
// GET /api/v1/cases
func (h *CaseHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	cases, err := h.caseService.ListForUser(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cases": cases})
}

// Get returns one case with replies and timeline, owner only.
// GET /api/v1/cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.caseService.GetForUser(c.Param("id"), userID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reply appends a client message to the case thread.
// POST /api/v1/cases/:id/replies
func (h *CaseHandler) Reply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CaseReplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.caseService.Reply(c.Param("id"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
