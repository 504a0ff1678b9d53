package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"lexportal_backend/internal/config"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/internal/storage"
	"lexportal_backend/internal/validator"
	"lexportal_backend/pkg/apperrors"
)

// DocumentUpload is a file received at the HTTP boundary for the client's
// folder.
type DocumentUpload struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string
}

// FolderService handles the per-client master folder: the two-way message
// thread, shared documents and the lawyer's private notes.
type FolderService interface {
	// Client side
	ListMessages(userID string) ([]dto.MessageResponse, error)
	SendClientMessage(userID string, req *dto.SendMessageRequest, audit AuditContext) (*dto.MessageResponse, error)
	UnreadCount(userID string) (int64, error)
	ListDocuments(userID string) ([]dto.DocumentResponse, error)
	// OpenDocument streams a document after checking it belongs to the
	// caller's folder. The caller closes the reader.
	OpenDocument(ctx context.Context, userID, documentID string) (io.ReadCloser, *models.ClientDocument, error)

	// Staff side
	SendStaffMessage(clientID, staffID string, req *dto.SendMessageRequest, audit AuditContext) (*dto.MessageResponse, error)
	ListMessagesForStaff(clientID string) ([]dto.MessageResponse, error)
	UpdateNotes(clientID, notes string) error
	UploadDocument(ctx context.Context, clientID, staffID, title string, file *DocumentUpload, audit AuditContext) (*dto.DocumentResponse, error)
}

type FolderServiceImpl struct {
	folderRepo   repositories.FolderRepository
	auditService AuditService
	storage      storage.Storage
	cfg          *config.Config
}

func NewFolderService(
	folderRepo repositories.FolderRepository,
	auditService AuditService,
	store storage.Storage,
	cfg *config.Config,
) FolderService {
	return &FolderServiceImpl{
		folderRepo:   folderRepo,
		auditService: auditService,
		storage:      store,
		cfg:          cfg,
	}
}

func (s *FolderServiceImpl) ListMessages(userID string) ([]dto.MessageResponse, error) {
	folder, err := s.folderRepo.FindOrCreateByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Opening the thread marks the lawyer's messages as read.
	if err := s.folderRepo.MarkMessagesRead(folder.ID, models.MessageDirectionLawyer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	messages, err := s.folderRepo.FindMessages(folder.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messageResponses(messages), nil
}

func (s *FolderServiceImpl) SendClientMessage(userID string, req *dto.SendMessageRequest, audit AuditContext) (*dto.MessageResponse, error) {
	return s.send(userID, userID, models.MessageDirectionClient, req, audit)
}

func (s *FolderServiceImpl) SendStaffMessage(clientID, staffID string, req *dto.SendMessageRequest, audit AuditContext) (*dto.MessageResponse, error) {
	return s.send(clientID, staffID, models.MessageDirectionLawyer, req, audit)
}

func (s *FolderServiceImpl) send(clientID, senderID string, direction models.MessageDirection, req *dto.SendMessageRequest, audit AuditContext) (*dto.MessageResponse, error) {
	folder, err := s.folderRepo.FindOrCreateByUser(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	msg := &models.ClientMessage{
		FolderID:  folder.ID,
		SenderID:  &senderID,
		Direction: direction,
		Message:   validator.CleanText(req.Message),
	}
	if err := s.folderRepo.CreateMessage(msg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(&senderID, models.AuditMasterMessage, withMeta(audit, map[string]interface{}{
		"folder_id": folder.ID,
		"direction": string(direction),
	}))

	resp := messageResponse(msg)
	return &resp, nil
}

func (s *FolderServiceImpl) UnreadCount(userID string) (int64, error) {
	folder, err := s.folderRepo.FindByUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFolderNotFound) {
			return 0, nil
		}
		return 0, apperrors.InternalError(err)
	}
	count, err := s.folderRepo.CountUnread(folder.ID, models.MessageDirectionLawyer)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *FolderServiceImpl) ListMessagesForStaff(clientID string) ([]dto.MessageResponse, error) {
	folder, err := s.folderRepo.FindOrCreateByUser(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.folderRepo.MarkMessagesRead(folder.ID, models.MessageDirectionClient); err != nil {
		return nil, apperrors.InternalError(err)
	}

	messages, err := s.folderRepo.FindMessages(folder.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return messageResponses(messages), nil
}

func (s *FolderServiceImpl) UpdateNotes(clientID, notes string) error {
	folder, err := s.folderRepo.FindOrCreateByUser(clientID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	folder.Notes = notes
	if err := s.folderRepo.Update(folder); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *FolderServiceImpl) ListDocuments(userID string) ([]dto.DocumentResponse, error) {
	folder, err := s.folderRepo.FindByUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFolderNotFound) {
			return []dto.DocumentResponse{}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	docs, err := s.folderRepo.FindDocuments(folder.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.documentResponses(docs), nil
}

func (s *FolderServiceImpl) OpenDocument(ctx context.Context, userID, documentID string) (io.ReadCloser, *models.ClientDocument, error) {
	folder, err := s.folderRepo.FindByUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFolderNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.InternalError(err)
	}

	doc, err := s.folderRepo.FindDocumentByID(documentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFolderNotFound) {
			return nil, nil, apperrors.ErrNotFound(err)
		}
		return nil, nil, apperrors.InternalError(err)
	}
	if doc.FolderID != folder.ID {
		return nil, nil, apperrors.ErrInsufficientPermissions
	}

	reader, err := s.storage.Get(ctx, doc.Path)
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}
	return reader, doc, nil
}

// UploadDocument stores a file shared by staff into the client's folder.
// Documents allow the image types plus PDF.
func (s *FolderServiceImpl) UploadDocument(ctx context.Context, clientID, staffID, title string, file *DocumentUpload, audit AuditContext) (*dto.DocumentResponse, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewBadRequestError("Document title is required")
	}
	if file == nil || file.Reader == nil {
		return nil, apperrors.NewBadRequestError("Document file is required")
	}
	if file.Size > s.cfg.Upload.MaxReceiptSize {
		return nil, apperrors.ErrFileTooLarge
	}
	allowed := append([]string{"application/pdf"}, s.cfg.Upload.AllowedTypes...)
	if !allowedContentType(file.ContentType, allowed) {
		return nil, apperrors.ErrInvalidFileType
	}

	folder, err := s.folderRepo.FindOrCreateByUser(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	doc := &models.ClientDocument{
		FolderID:     folder.ID,
		Title:        title,
		UploadedByID: &staffID,
	}

	data, err := io.ReadAll(io.LimitReader(file.Reader, s.cfg.Upload.MaxReceiptSize+1))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if int64(len(data)) > s.cfg.Upload.MaxReceiptSize {
		return nil, apperrors.ErrFileTooLarge
	}

	doc.Path = fmt.Sprintf("documents/%s/%s", folder.ID, storageSafeName(file.Filename))
	if err := s.storage.Save(ctx, doc.Path, bytes.NewReader(data), file.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.folderRepo.CreateDocument(doc); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(&staffID, models.AuditDocumentUpload, withMeta(audit, map[string]interface{}{
		"folder_id":   folder.ID,
		"document_id": doc.ID,
	}))

	resp := s.documentResponse(doc)
	return &resp, nil
}

func (s *FolderServiceImpl) documentResponse(d *models.ClientDocument) dto.DocumentResponse {
	url, err := s.storage.GetURL(context.Background(), d.Path)
	if err != nil {
		url = ""
	}
	return dto.DocumentResponse{
		ID:        d.ID,
		Title:     d.Title,
		URL:       url,
		CreatedAt: d.CreatedAt,
	}
}

func (s *FolderServiceImpl) documentResponses(docs []models.ClientDocument) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, s.documentResponse(&docs[i]))
	}
	return out
}

// storageSafeName strips path separators from an uploaded filename.
func storageSafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndex(name, "/"); idx != -1 {
		name = name[idx+1:]
	}
	if name == "" {
		name = "document"
	}
	return name
}

func messageResponse(m *models.ClientMessage) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        m.ID,
		Direction: string(m.Direction),
		Message:   m.Message,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func messageResponses(messages []models.ClientMessage) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, messageResponse(&messages[i]))
	}
	return out
}
