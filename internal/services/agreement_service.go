package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"lexportal_backend/internal/auth"
	"lexportal_backend/internal/config"
	"lexportal_backend/internal/email"
	"lexportal_backend/internal/logger"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/pdf"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/internal/storage"
	"lexportal_backend/internal/validator"
	"lexportal_backend/pkg/apperrors"
)

// ReceiptImage is an uploaded payment receipt as received at the HTTP
// boundary. Size is taken from the multipart header and re-checked here.
type ReceiptImage struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string
}

// AgreementService mediates every agreement mutation. Order inside each
// operation is fixed: ownership check, status precondition, validation,
// persistence, account status fan-out, audit event.
type AgreementService interface {
	// Staff operations
	Issue(req *dto.IssueAgreementRequest, audit AuditContext) (*dto.AgreementResponse, error)
	ApprovePayment(agreementID string, req *dto.ApprovePaymentRequest, staffID string, audit AuditContext) (*dto.AgreementResponse, error)
	RejectPayment(agreementID string, req *dto.RejectPaymentRequest, staffID string, audit AuditContext) (*dto.AgreementResponse, error)
	Expire(agreementID string, staffID string, audit AuditContext) error
	ListForStaff(filter repositories.AgreementFilter) ([]dto.AgreementResponse, int64, error)

	// Client operations, addressed by token with mandatory ownership check
	GetForUser(token, userID string, audit AuditContext) (*dto.AgreementResponse, error)
	AcceptOrSign(token, userID string, req *dto.AcceptAgreementRequest, audit AuditContext) (*dto.AgreementResponse, error)
	SubmitReceipt(ctx context.Context, token, userID, receiptCode string, image *ReceiptImage, audit AuditContext) (*dto.AgreementResponse, error)

	// NewestIncomplete backs the access gate; nil means nothing pending.
	NewestIncomplete(userID string) (*models.Agreement, error)

	// Template operations
	CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	UpdateTemplate(id string, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	ListTemplates(activeOnly bool) ([]dto.TemplateResponse, error)
}

type AgreementServiceImpl struct {
	agreementRepo repositories.AgreementRepository
	userRepo      repositories.UserRepository
	auditService  AuditService
	storage       storage.Storage
	emailProvider email.Provider
	cfg           *config.Config
}

func NewAgreementService(
	agreementRepo repositories.AgreementRepository,
	userRepo repositories.UserRepository,
	auditService AuditService,
	store storage.Storage,
	emailProvider email.Provider,
	cfg *config.Config,
) AgreementService {
	return &AgreementServiceImpl{
		agreementRepo: agreementRepo,
		userRepo:      userRepo,
		auditService:  auditService,
		storage:       store,
		emailProvider: emailProvider,
		cfg:           cfg,
	}
}

// =========================================================================
// Staff operations
// =========================================================================

func (s *AgreementServiceImpl) Issue(req *dto.IssueAgreementRequest, audit AuditContext) (*dto.AgreementResponse, error) {
	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	agreement := &models.Agreement{
		UserID:              user.ID,
		Token:               auth.GenerateOpaqueToken(),
		OfficeName:          s.cfg.Office.Name,
		Title:               req.Title,
		Text:                req.Text,
		PaymentRequired:     true,
		PaymentMethod:       models.PaymentMethodSadad,
		PaymentAmount:       req.PaymentAmount,
		OfficeInvoiceNumber: req.InvoiceNumber,
		Status:              models.AgreementStatusSent,
		SentAt:              time.Now(),
	}
	if req.CaseID != "" {
		agreement.CaseID = &req.CaseID
	}
	if req.PaymentRequired != nil {
		agreement.PaymentRequired = *req.PaymentRequired
	}
	if req.PaymentMethod != "" {
		agreement.PaymentMethod = models.PaymentMethod(req.PaymentMethod)
	}

	// Copy-on-create: an empty text with a template set takes the
	// template's title and text at save time.
	if req.TemplateID != "" {
		tpl, err := s.agreementRepo.FindTemplateByID(req.TemplateID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrTemplateNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
		agreement.TemplateID = &tpl.ID
		if agreement.Text == "" {
			agreement.Title = tpl.Title
			agreement.Text = tpl.Text
		}
	}
	if agreement.Title == "" {
		return nil, apperrors.ErrInvalidOperation("agreement", "Agreement needs a title or a template")
	}

	if err := s.agreementRepo.Create(agreement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Issuing gates the account until the agreement is completed.
	if err := s.userRepo.UpdateAccountStatus(user.ID, models.AccountStatusPendingAgreement); err != nil {
		logger.WithError(err).Error("failed to gate account on issue", "user_id", user.ID)
	}

	s.notifyAgreementIssued(user, agreement)

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) ApprovePayment(agreementID string, req *dto.ApprovePaymentRequest, staffID string, audit AuditContext) (*dto.AgreementResponse, error) {
	agreement, err := s.findByID(agreementID)
	if err != nil {
		return nil, err
	}

	next, ok := models.NextStatus(agreement.Status, models.AgreementActionApprove)
	if !ok {
		return nil, apperrors.ErrInvalidStatus("agreement",
			fmt.Sprintf("Cannot approve payment while agreement is '%s'", agreement.Status))
	}

	now := time.Now()
	agreement.Status = next
	agreement.PaidAt = &now
	if req.ReceiptNumber != "" {
		agreement.ReceiptNumber = req.ReceiptNumber
	}
	if agreement.ReceiptNumber == "" {
		agreement.ReceiptNumber = fmt.Sprintf("R-%s", now.Format("20060102-150405"))
	}

	if err := s.agreementRepo.Update(agreement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateAccountStatus(agreement.UserID, models.AccountStatusActive); err != nil {
		logger.WithError(err).Error("failed to activate account on approval", "user_id", agreement.UserID)
	}

	// Receipt PDF and email are best-effort. The payment stays approved
	// even when they fail.
	s.renderReceiptPDF(agreement)
	s.sendApprovalEmail(agreement)

	s.auditService.Record(&staffID, models.AuditPaymentApprove, withMeta(audit, map[string]interface{}{
		"agreement_id":   agreement.ID,
		"receipt_number": agreement.ReceiptNumber,
	}))

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) RejectPayment(agreementID string, req *dto.RejectPaymentRequest, staffID string, audit AuditContext) (*dto.AgreementResponse, error) {
	agreement, err := s.findByID(agreementID)
	if err != nil {
		return nil, err
	}

	next, ok := models.NextStatus(agreement.Status, models.AgreementActionReject)
	if !ok {
		return nil, apperrors.ErrInvalidStatus("agreement",
			fmt.Sprintf("Cannot reject payment while agreement is '%s'", agreement.Status))
	}

	// The submitted receipt code and image stay on the row for audit;
	// a resubmission overwrites them.
	agreement.Status = next
	if err := s.agreementRepo.Update(agreement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(&staffID, models.AuditPaymentReject, withMeta(audit, map[string]interface{}{
		"agreement_id": agreement.ID,
		"reason":       req.Reason,
	}))

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) Expire(agreementID string, staffID string, audit AuditContext) error {
	agreement, err := s.findByID(agreementID)
	if err != nil {
		return err
	}

	next, ok := models.NextStatus(agreement.Status, models.AgreementActionExpire)
	if !ok {
		return apperrors.ErrInvalidStatus("agreement",
			fmt.Sprintf("Cannot expire agreement in status '%s'", agreement.Status))
	}

	agreement.Status = next
	if err := s.agreementRepo.Update(agreement); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(&staffID, models.AuditView, withMeta(audit, map[string]interface{}{
		"agreement_id": agreement.ID,
		"action":       "expire",
	}))
	return nil
}

func (s *AgreementServiceImpl) ListForStaff(filter repositories.AgreementFilter) ([]dto.AgreementResponse, int64, error) {
	agreements, total, err := s.agreementRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.AgreementResponse, 0, len(agreements))
	for i := range agreements {
		out = append(out, agreementResponse(&agreements[i]))
	}
	return out, total, nil
}

// =========================================================================
// Client operations
// =========================================================================

// loadOwned fetches by token and enforces ownership. A mismatch is a hard
// denial with exactly one access_denied audit event, never a redirect.
func (s *AgreementServiceImpl) loadOwned(token, userID string, audit AuditContext) (*models.Agreement, error) {
	agreement, err := s.agreementRepo.FindByToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAgreementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if agreement.UserID != userID {
		s.auditService.Record(&userID, models.AuditAccessDenied, withMeta(audit, map[string]interface{}{
			"agreement_id": agreement.ID,
		}))
		return nil, apperrors.ErrAgreementAccessDenied
	}
	return agreement, nil
}

func (s *AgreementServiceImpl) GetForUser(token, userID string, audit AuditContext) (*dto.AgreementResponse, error) {
	agreement, err := s.loadOwned(token, userID, audit)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(&userID, models.AuditView, withMeta(audit, map[string]interface{}{
		"agreement_id": agreement.ID,
	}))

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) AcceptOrSign(token, userID string, req *dto.AcceptAgreementRequest, audit AuditContext) (*dto.AgreementResponse, error) {
	agreement, err := s.loadOwned(token, userID, audit)
	if err != nil {
		return nil, err
	}

	if agreement.IsLocked() {
		return nil, apperrors.ErrAgreementLocked
	}

	// At least one mechanism is mandatory; both are settable on the same
	// submission. Validate everything before mutating the row.
	if !req.AcceptedCheckbox && req.SignatureData == "" {
		return nil, apperrors.ErrAcceptanceRequired
	}

	var signature []byte
	if req.SignatureData != "" {
		signature, err = decodeSignature(req.SignatureData, s.cfg.Upload.MaxSignatureSize)
		if err != nil {
			return nil, apperrors.ErrInvalidSignature
		}
	}

	action := models.AgreementActionAccept
	eventType := models.AuditAgreementAccept
	if signature != nil {
		action = models.AgreementActionSign
		eventType = models.AuditAgreementSign
	}

	next, ok := models.NextStatus(agreement.Status, action)
	if !ok {
		return nil, apperrors.ErrInvalidStatus("agreement",
			fmt.Sprintf("Agreement in status '%s' can no longer be accepted", agreement.Status))
	}

	now := time.Now()
	if req.AcceptedCheckbox {
		agreement.AcceptedCheckbox = true
		agreement.AcceptedAt = &now
	}
	if signature != nil {
		path := fmt.Sprintf("signatures/%s.png", agreement.ID)
		if err := s.storage.Save(context.Background(), path, bytes.NewReader(signature), "image/png"); err != nil {
			return nil, apperrors.InternalError(err)
		}
		agreement.SignaturePath = path
		agreement.SignedAt = &now
	}
	agreement.Status = next

	// Post-acceptance fan-out: a payable agreement moves on to the
	// payment step; otherwise acceptance completes it.
	if agreement.PaymentRequired {
		if next, ok := models.NextStatus(agreement.Status, models.AgreementActionRequirePayment); ok {
			agreement.Status = next
		}
	}

	if err := s.agreementRepo.Update(agreement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	accountStatus := models.AccountStatusActive
	if agreement.PaymentRequired {
		accountStatus = models.AccountStatusPaymentPending
	}
	if err := s.userRepo.UpdateAccountStatus(userID, accountStatus); err != nil {
		logger.WithError(err).Error("failed to update account status on acceptance", "user_id", userID)
	}

	s.auditService.Record(&userID, eventType, withMeta(audit, map[string]interface{}{
		"agreement_id": agreement.ID,
	}))

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) SubmitReceipt(ctx context.Context, token, userID, receiptCode string, image *ReceiptImage, audit AuditContext) (*dto.AgreementResponse, error) {
	agreement, err := s.loadOwned(token, userID, audit)
	if err != nil {
		return nil, err
	}

	if agreement.IsLocked() {
		return nil, apperrors.ErrAgreementLocked
	}

	if !models.CanTransition(agreement.Status, models.AgreementActionSubmitReceipt) {
		return nil, apperrors.ErrInvalidStatus("agreement",
			fmt.Sprintf("Receipts cannot be submitted while agreement is '%s'", agreement.Status))
	}

	// All validation happens before any write. A failure here leaves the
	// agreement untouched: no partial persistence.
	receiptCode = strings.TrimSpace(receiptCode)
	if receiptCode == "" {
		return nil, apperrors.ErrReceiptCodeRequired
	}
	if !validator.ValidReceiptCode(receiptCode) {
		return nil, apperrors.ErrInvalidReceiptCode
	}
	if image == nil || image.Reader == nil {
		return nil, apperrors.ErrReceiptImageRequired
	}
	if image.Size > s.cfg.Upload.MaxReceiptSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !allowedContentType(image.ContentType, s.cfg.Upload.AllowedTypes) {
		return nil, apperrors.ErrInvalidFileType
	}

	// Re-check the size while copying in case the header lied.
	data, err := io.ReadAll(io.LimitReader(image.Reader, s.cfg.Upload.MaxReceiptSize+1))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if int64(len(data)) > s.cfg.Upload.MaxReceiptSize {
		return nil, apperrors.ErrFileTooLarge
	}

	path := fmt.Sprintf("receipts/%s%s", agreement.ID, extensionFor(image.ContentType))
	if err := s.storage.Save(ctx, path, bytes.NewReader(data), image.ContentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	next, _ := models.NextStatus(agreement.Status, models.AgreementActionSubmitReceipt)
	agreement.Status = next
	agreement.ClientPaymentReceipt = receiptCode
	agreement.ClientPaidAt = &now
	agreement.ClientReceiptImagePath = path
	agreement.ClientReceiptImageAt = &now

	if err := s.agreementRepo.Update(agreement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(&userID, models.AuditPaymentSubmit, withMeta(audit, map[string]interface{}{
		"agreement_id": agreement.ID,
	}))

	resp := agreementResponse(agreement)
	return &resp, nil
}

func (s *AgreementServiceImpl) NewestIncomplete(userID string) (*models.Agreement, error) {
	agreement, err := s.agreementRepo.NewestIncompleteForUser(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAgreementNotFound) {
			return nil, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return agreement, nil
}

// =========================================================================
// Templates
// =========================================================================

func (s *AgreementServiceImpl) CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	tpl := &models.AgreementTemplate{
		Title:    req.Title,
		Text:     validator.CleanText(req.Text),
		IsActive: true,
	}
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.agreementRepo.CreateTemplate(tpl); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := templateResponse(tpl)
	return &resp, nil
}

func (s *AgreementServiceImpl) UpdateTemplate(id string, req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	tpl, err := s.agreementRepo.FindTemplateByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	tpl.Title = req.Title
	tpl.Text = validator.CleanText(req.Text)
	if req.IsActive != nil {
		tpl.IsActive = *req.IsActive
	}

	if err := s.agreementRepo.UpdateTemplate(tpl); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := templateResponse(tpl)
	return &resp, nil
}

func (s *AgreementServiceImpl) ListTemplates(activeOnly bool) ([]dto.TemplateResponse, error) {
	templates, err := s.agreementRepo.FindTemplates(activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, templateResponse(&templates[i]))
	}
	return out, nil
}

// =========================================================================
// Helpers
// =========================================================================

func (s *AgreementServiceImpl) findByID(agreementID string) (*models.Agreement, error) {
	agreement, err := s.agreementRepo.FindByID(agreementID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAgreementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return agreement, nil
}

func (s *AgreementServiceImpl) renderReceiptPDF(agreement *models.Agreement) {
	user, err := s.userRepo.FindByID(agreement.UserID)
	if err != nil {
		logger.WithError(err).Warn("receipt pdf skipped, owner lookup failed", "agreement_id", agreement.ID)
		return
	}

	clientName := user.Username
	if user.Profile != nil && user.Profile.FullName != "" {
		clientName = user.Profile.FullName
	}

	data := pdf.ReceiptData{
		ReceiptNumber: agreement.ReceiptNumber,
		OfficeName:    agreement.OfficeName,
		ClientName:    clientName,
		ServiceTitle:  agreement.Title,
		Amount:        agreement.PaymentAmount,
		Currency:      "LYD",
		PaymentMethod: string(agreement.PaymentMethod),
		PaidAt:        *agreement.PaidAt,
	}

	raw, err := pdf.RenderReceipt(data)
	if err != nil {
		logger.WithError(err).Warn("receipt pdf rendering failed", "agreement_id", agreement.ID)
		return
	}

	path := fmt.Sprintf("receipts/pdf/%s.pdf", agreement.ID)
	if err := s.storage.Save(context.Background(), path, bytes.NewReader(raw), "application/pdf"); err != nil {
		logger.WithError(err).Warn("receipt pdf save failed", "agreement_id", agreement.ID)
		return
	}

	agreement.ReceiptPDFPath = path
	if err := s.agreementRepo.Update(agreement); err != nil {
		logger.WithError(err).Warn("receipt pdf path update failed", "agreement_id", agreement.ID)
	}
}

func (s *AgreementServiceImpl) sendApprovalEmail(agreement *models.Agreement) {
	if s.emailProvider == nil {
		return
	}

	user, err := s.userRepo.FindByID(agreement.UserID)
	if err != nil {
		return
	}

	msg := &email.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Payment confirmed - receipt %s", agreement.ReceiptNumber),
		Body: fmt.Sprintf(
			"Your payment for \"%s\" has been verified and approved.\nReceipt number: %s\n\n%s",
			agreement.Title, agreement.ReceiptNumber, agreement.OfficeName),
	}
	if err := s.emailProvider.Send(msg); err != nil {
		logger.WithError(err).Warn("approval email failed", "agreement_id", agreement.ID)
	}
}

func (s *AgreementServiceImpl) notifyAgreementIssued(user *models.User, agreement *models.Agreement) {
	if s.emailProvider == nil {
		return
	}

	msg := &email.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("New agreement from %s", agreement.OfficeName),
		Body: fmt.Sprintf(
			"An agreement \"%s\" is waiting for your review.\nOpen your portal dashboard to proceed.",
			agreement.Title),
	}
	if err := s.emailProvider.Send(msg); err != nil {
		logger.WithError(err).Warn("issue notification email failed", "agreement_id", agreement.ID)
	}
}

// decodeSignature accepts raw base64 or a data URL and enforces maxSize
// on the decoded payload.
func decodeSignature(data string, maxSize int64) ([]byte, error) {
	if idx := strings.Index(data, ","); idx != -1 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("malformed signature payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty signature payload")
	}
	if maxSize > 0 && int64(len(raw)) > maxSize {
		return nil, fmt.Errorf("signature payload too large")
	}
	return raw, nil
}

func allowedContentType(contentType string, allowed []string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func agreementResponse(a *models.Agreement) dto.AgreementResponse {
	return dto.AgreementResponse{
		ID:               a.ID,
		Token:            a.Token,
		OfficeName:       a.OfficeName,
		Title:            a.Title,
		Text:             a.Text,
		Status:           string(a.Status),
		AcceptedCheckbox: a.AcceptedCheckbox,
		AcceptedAt:       a.AcceptedAt,
		SignedAt:         a.SignedAt,
		PaymentRequired:  a.PaymentRequired,
		PaymentMethod:    string(a.PaymentMethod),
		PaymentAmount:    a.PaymentAmount,
		InvoiceNumber:    a.OfficeInvoiceNumber,
		ReceiptNumber:    a.ReceiptNumber,
		PaidAt:           a.PaidAt,
		SentAt:           a.SentAt,
		Completed:        a.IsCompleted(),
		Locked:           a.IsLocked(),
	}
}

func templateResponse(t *models.AgreementTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        t.ID,
		Title:     t.Title,
		Text:      t.Text,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
	}
}
