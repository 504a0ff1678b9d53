package repositories

import (
	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

// AuditRepository is insert and read only. There is no update or delete
// on purpose: the audit trail must stay append-only.
type AuditRepository interface {
	Create(event *models.AuditEvent) error
	FindWithFilter(filter AuditFilter) ([]models.AuditEvent, int64, error)
}

type AuditFilter struct {
	UserID    string
	EventType models.AuditEventType
	Page      int
	PageSize  int
}

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Create(event *models.AuditEvent) error {
	return r.db.Create(event).Error
}

func (r *AuditRepositoryImpl) FindWithFilter(filter AuditFilter) ([]models.AuditEvent, int64, error) {
	query := r.db.Model(&models.AuditEvent{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	var events []models.AuditEvent
	err := query.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
