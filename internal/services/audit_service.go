package services

import (
	"encoding/json"

	"lexportal_backend/internal/logger"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

// AuditService records portal activity. Recording is best-effort: a
// failed insert is logged but never fails the operation being audited.
type AuditService interface {
	Record(userID *string, eventType models.AuditEventType, ctx AuditContext)
	List(filter repositories.AuditFilter) ([]dto.AuditEventResponse, int64, error)
}

// AuditContext carries the request-scoped fields of an audit entry.
type AuditContext struct {
	Path      string
	IP        string
	UserAgent string
	Meta      map[string]interface{}
}

type AuditServiceImpl struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) Record(userID *string, eventType models.AuditEventType, ctx AuditContext) {
	event := &models.AuditEvent{
		UserID:    userID,
		EventType: eventType,
		Path:      truncate(ctx.Path, 300),
		IP:        truncate(ctx.IP, 64),
		UserAgent: truncate(ctx.UserAgent, 300),
	}

	if len(ctx.Meta) > 0 {
		if raw, err := json.Marshal(ctx.Meta); err == nil {
			event.Meta = raw
		}
	}

	if err := s.auditRepo.Create(event); err != nil {
		logger.WithError(err).Error("failed to record audit event", "event_type", eventType)
	}
}

func (s *AuditServiceImpl) List(filter repositories.AuditFilter) ([]dto.AuditEventResponse, int64, error) {
	events, total, err := s.auditRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.AuditEventResponse, 0, len(events))
	for _, e := range events {
		resp := dto.AuditEventResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			EventType: string(e.EventType),
			Path:      e.Path,
			IP:        e.IP,
			CreatedAt: e.CreatedAt,
		}
		if len(e.Meta) > 0 {
			var meta map[string]interface{}
			if err := json.Unmarshal(e.Meta, &meta); err == nil {
				resp.Meta = meta
			}
		}
		out = append(out, resp)
	}
	return out, total, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
