package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

// StaffHandler groups the office-side operations: templates, agreement
// issuance and review, case management, the client registry and the
// audit trail.
type StaffHandler struct {
	*BaseHandler
	agreementService services.AgreementService
	caseService      services.CaseService
	userService      services.UserService
	folderService    services.FolderService
	auditService     services.AuditService
}

func NewStaffHandler(
	base *BaseHandler,
	agreementService services.AgreementService,
	caseService services.CaseService,
	userService services.UserService,
	folderService services.FolderService,
	auditService services.AuditService,
) *StaffHandler {
	return &StaffHandler{
		BaseHandler:      base,
		agreementService: agreementService,
		caseService:      caseService,
		userService:      userService,
		folderService:    folderService,
		auditService:     auditService,
	}
}

// =========================================================================
// Templates
// =========================================================================

// POST /api/v1/staff/templates
func (h *StaffHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.CreateTemplate(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PUT /api/v1/staff/templates/:id
func (h *StaffHandler) UpdateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.UpdateTemplate(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/staff/templates
func (h *StaffHandler) ListTemplates(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	templates, err := h.agreementService.ListTemplates(activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// =========================================================================
// Agreements
// =========================================================================

// Issue sends a new agreement to one client and gates the account.
// POST /api/v1/staff/agreements
func (h *StaffHandler) IssueAgreement(c *gin.Context) {
	var req dto.IssueAgreementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.Issue(&req, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/staff/agreements
func (h *StaffHandler) ListAgreements(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.AgreementFilter{
		UserID:   c.Query("user_id"),
		Status:   models.AgreementStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	agreements, total, err := h.agreementService.ListForStaff(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    agreements,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Approve confirms the payment of an agreement under review.
// POST /api/v1/staff/agreements/:id/approve
func (h *StaffHandler) ApprovePayment(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApprovePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.ApprovePayment(c.Param("id"), &req, staffID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reject sends the agreement back to payment_pending for resubmission.
// POST /api/v1/staff/agreements/:id/reject
func (h *StaffHandler) RejectPayment(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RejectPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.RejectPayment(c.Param("id"), &req, staffID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expire closes an abandoned agreement.
// POST /api/v1/staff/agreements/:id/expire
func (h *StaffHandler) ExpireAgreement(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.agreementService.Expire(c.Param("id"), staffID, h.AuditContext(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agreement expired"})
}

// =========================================================================
// Cases
// =========================================================================

// GET /api/v1/staff/cases
func (h *StaffHandler) ListCases(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.CaseFilter{
		UserID:   c.Query("user_id"),
		Status:   models.CaseStatus(c.Query("status")),
		Type:     models.CaseType(c.Query("type")),
		Page:     page,
		PageSize: pageSize,
	}

	cases, total, err := h.caseService.ListForStaff(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    cases,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GET /api/v1/staff/cases/:id
func (h *StaffHandler) GetCase(c *gin.Context) {
	resp, err := h.caseService.GetForStaff(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PUT /api/v1/staff/cases/:id
func (h *StaffHandler) UpdateCase(c *gin.Context) {
	var req dto.UpdateCaseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.caseService.Update(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/staff/cases/:id/replies
func (h *StaffHandler) ReplyCase(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CaseReplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.caseService.StaffReply(c.Param("id"), staffID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// POST /api/v1/staff/cases/:id/timeline
func (h *StaffHandler) AddTimelineEvent(c *gin.Context) {
	var req dto.TimelineEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.caseService.AddTimelineEvent(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// =========================================================================
// Clients
// =========================================================================

// GET /api/v1/staff/clients
func (h *StaffHandler) ListClients(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.ClientFilter{
		Status:   models.AccountStatus(c.Query("status")),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}

	clients, total, err := h.userService.ListClients(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    clients,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GET /api/v1/staff/clients/:id
func (h *StaffHandler) GetClient(c *gin.Context) {
	resp, err := h.userService.GetClient(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/staff/clients/:id/messages
func (h *StaffHandler) ListClientMessages(c *gin.Context) {
	messages, err := h.folderService.ListMessagesForStaff(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// POST /api/v1/staff/clients/:id/messages
func (h *StaffHandler) SendClientMessage(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.folderService.SendStaffMessage(c.Param("id"), staffID, &req, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateClientNotes replaces the lawyer's private notes on the folder.
// PUT /api/v1/staff/clients/:id/notes
func (h *StaffHandler) UpdateClientNotes(c *gin.Context) {
	var req dto.UpdateNotesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.folderService.UpdateNotes(c.Param("id"), req.Notes); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
}

// GET /api/v1/staff/clients/:id/documents
func (h *StaffHandler) ListClientDocuments(c *gin.Context) {
	documents, err := h.folderService.ListDocuments(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// UploadClientDocument shares a file into the client's folder. Multipart
// form with a "title" field and a "file" part.
// POST /api/v1/staff/clients/:id/documents
func (h *StaffHandler) UploadClientDocument(c *gin.Context) {
	staffID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Document file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	upload := &services.DocumentUpload{
		Reader:      file,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Filename:    fileHeader.Filename,
	}

	resp, err := h.folderService.UploadDocument(
		c.Request.Context(), c.Param("id"), staffID, c.PostForm("title"), upload, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// =========================================================================
// Audit trail
// =========================================================================

// GET /api/v1/staff/events
func (h *StaffHandler) ListEvents(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.AuditFilter{
		UserID:    c.Query("user_id"),
		EventType: models.AuditEventType(c.Query("type")),
		Page:      page,
		PageSize:  pageSize,
	}

	events, total, err := h.auditService.List(filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PagedResponse{
		Items:    events,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}
