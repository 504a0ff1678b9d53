package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/logger"
	"lexportal_backend/internal/services"
	"lexportal_backend/internal/services/dto"
)

type MessageHandler struct {
	*BaseHandler
	folderService services.FolderService
}

func NewMessageHandler(base *BaseHandler, folderService services.FolderService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:   base,
		folderService: folderService,
	}
}

// List returns the caller's message thread and marks office messages read.
// GET /api/v1/messages
func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	messages, err := h.folderService.ListMessages(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send appends a client message to the thread.
// POST /api/v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.folderService.SendClientMessage(userID, &req, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListDocuments returns the files the office has shared with the caller.
// GET /api/v1/documents
func (h *MessageHandler) ListDocuments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	documents, err := h.folderService.ListDocuments(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// DownloadDocument streams one shared file after an ownership check.
// GET /api/v1/documents/:id/download
func (h *MessageHandler) DownloadDocument(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	reader, doc, err := h.folderService.OpenDocument(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Title))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWarn(c.Request.Context(), "document stream interrupted", "document_id", doc.ID)
	}
}
