package services

import (
	"lexportal_backend/internal/logger"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/internal/validator"
	"lexportal_backend/pkg/apperrors"
)

type CaseService interface {
	// Client operations
	Create(userID string, req *dto.CreateCaseRequest, audit AuditContext) (*dto.CaseResponse, error)
	ListForUser(userID string) ([]dto.CaseResponse, error)
	GetForUser(caseID, userID string, audit AuditContext) (*dto.CaseDetailResponse, error)
	Reply(caseID, userID string, req *dto.CaseReplyRequest) (*dto.CaseReplyResponse, error)

	// Staff operations
	ListForStaff(filter repositories.CaseFilter) ([]dto.CaseResponse, int64, error)
	GetForStaff(caseID string) (*dto.CaseDetailResponse, error)
	Update(caseID string, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error)
	StaffReply(caseID, staffID string, req *dto.CaseReplyRequest) (*dto.CaseReplyResponse, error)
	AddTimelineEvent(caseID string, req *dto.TimelineEventRequest) (*dto.TimelineEventResponse, error)
}

type CaseServiceImpl struct {
	caseRepo     repositories.CaseRepository
	auditService AuditService
}

func NewCaseService(caseRepo repositories.CaseRepository, auditService AuditService) CaseService {
	return &CaseServiceImpl{
		caseRepo:     caseRepo,
		auditService: auditService,
	}
}

func (s *CaseServiceImpl) Create(userID string, req *dto.CreateCaseRequest, audit AuditContext) (*dto.CaseResponse, error) {
	caseNumber, err := s.caseRepo.NextCaseNumber()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	c := &models.Case{
		UserID:      userID,
		CaseNumber:  caseNumber,
		Type:        models.CaseType(req.Type),
		Title:       validator.CleanText(req.Title),
		Description: validator.CleanText(req.Description),
		Status:      models.CaseStatusNew,
	}

	if err := s.caseRepo.Create(c); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.caseRepo.CreateTimelineEvent(&models.CaseTimelineEvent{
		CaseID:  c.ID,
		Stage:   models.TimelineStageCaseSubmitted,
		Title:   "Case submitted",
		Outcome: models.TimelineOutcomePending,
	}); err != nil {
		logger.WithError(err).Error("failed to record initial timeline event", "case_id", c.ID)
	}

	s.auditService.Record(&userID, models.AuditCaseCreate, withMeta(audit, map[string]interface{}{
		"case_id":     c.ID,
		"case_number": c.CaseNumber,
	}))

	resp := caseResponse(c)
	return &resp, nil
}

func (s *CaseServiceImpl) ListForUser(userID string) ([]dto.CaseResponse, error) {
	cases, err := s.caseRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return caseResponses(cases), nil
}

func (s *CaseServiceImpl) GetForUser(caseID, userID string, audit AuditContext) (*dto.CaseDetailResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}

	// Ownership mismatch is a hard denial plus one audit event, matching
	// the agreement access rule.
	if c.UserID != userID {
		s.auditService.Record(&userID, models.AuditAccessDenied, withMeta(audit, map[string]interface{}{
			"case_id": c.ID,
		}))
		return nil, apperrors.ErrInsufficientPermissions
	}

	return s.caseDetail(c, true)
}

func (s *CaseServiceImpl) Reply(caseID, userID string, req *dto.CaseReplyRequest) (*dto.CaseReplyResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	reply := &models.CaseReply{
		CaseID:           c.ID,
		SenderID:         userID,
		Message:          validator.CleanText(req.Message),
		VisibleForClient: true,
	}
	if err := s.caseRepo.CreateReply(reply); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := replyResponse(reply)
	return &resp, nil
}

func (s *CaseServiceImpl) ListForStaff(filter repositories.CaseFilter) ([]dto.CaseResponse, int64, error) {
	cases, total, err := s.caseRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return caseResponses(cases), total, nil
}

func (s *CaseServiceImpl) GetForStaff(caseID string) (*dto.CaseDetailResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}
	return s.caseDetail(c, false)
}

func (s *CaseServiceImpl) Update(caseID string, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		c.Status = models.CaseStatus(req.Status)
	}
	if req.LawyerNotes != "" {
		c.LawyerNotes = req.LawyerNotes
	}

	if err := s.caseRepo.Update(c); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := caseResponse(c)
	return &resp, nil
}

func (s *CaseServiceImpl) StaffReply(caseID, staffID string, req *dto.CaseReplyRequest) (*dto.CaseReplyResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}

	visible := true
	if req.VisibleForClient != nil {
		visible = *req.VisibleForClient
	}

	reply := &models.CaseReply{
		CaseID:           c.ID,
		SenderID:         staffID,
		Message:          validator.CleanText(req.Message),
		VisibleForClient: visible,
	}
	if err := s.caseRepo.CreateReply(reply); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := replyResponse(reply)
	return &resp, nil
}

func (s *CaseServiceImpl) AddTimelineEvent(caseID string, req *dto.TimelineEventRequest) (*dto.TimelineEventResponse, error) {
	c, err := s.findCase(caseID)
	if err != nil {
		return nil, err
	}

	event := &models.CaseTimelineEvent{
		CaseID:      c.ID,
		Stage:       models.TimelineStage(req.Stage),
		Title:       req.Title,
		Description: req.Description,
		Outcome:     models.TimelineOutcomePending,
	}
	if req.Outcome != "" {
		event.Outcome = models.TimelineOutcome(req.Outcome)
	}

	if err := s.caseRepo.CreateTimelineEvent(event); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := timelineResponse(event)
	return &resp, nil
}

func (s *CaseServiceImpl) findCase(caseID string) (*models.Case, error) {
	c, err := s.caseRepo.FindByID(caseID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCaseNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return c, nil
}

func (s *CaseServiceImpl) caseDetail(c *models.Case, clientVisibleOnly bool) (*dto.CaseDetailResponse, error) {
	replies, err := s.caseRepo.FindReplies(c.ID, clientVisibleOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	timeline, err := s.caseRepo.FindTimeline(c.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	detail := &dto.CaseDetailResponse{
		CaseResponse: caseResponse(c),
		Replies:      make([]dto.CaseReplyResponse, 0, len(replies)),
		Timeline:     make([]dto.TimelineEventResponse, 0, len(timeline)),
	}
	for i := range replies {
		detail.Replies = append(detail.Replies, replyResponse(&replies[i]))
	}
	for i := range timeline {
		detail.Timeline = append(detail.Timeline, timelineResponse(&timeline[i]))
	}
	return detail, nil
}

func caseResponse(c *models.Case) dto.CaseResponse {
	return dto.CaseResponse{
		ID:          c.ID,
		CaseNumber:  c.CaseNumber,
		Type:        string(c.Type),
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

func caseResponses(cases []models.Case) []dto.CaseResponse {
	out := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		out = append(out, caseResponse(&cases[i]))
	}
	return out
}

func replyResponse(r *models.CaseReply) dto.CaseReplyResponse {
	return dto.CaseReplyResponse{
		ID:        r.ID,
		SenderID:  r.SenderID,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

func timelineResponse(e *models.CaseTimelineEvent) dto.TimelineEventResponse {
	return dto.TimelineEventResponse{
		ID:          e.ID,
		Stage:       string(e.Stage),
		Title:       e.Title,
		Description: e.Description,
		Outcome:     string(e.Outcome),
		CreatedAt:   e.CreatedAt,
	}
}
