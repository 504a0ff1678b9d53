package repositories

import (
	"errors"
	"fmt"
	"time"

	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCaseNotFound = errors.New("case not found")

type CaseRepository interface {
	Create(c *models.Case) error
	Update(c *models.Case) error
	FindByID(id string) (*models.Case, error)
	FindByUser(userID string) ([]models.Case, error)
	FindWithFilter(filter CaseFilter) ([]models.Case, int64, error)
	CountByUser(userID string) (int64, error)
	NextCaseNumber() (string, error)

	// Reply operations
	CreateReply(reply *models.CaseReply) error
	FindReplies(caseID string, clientVisibleOnly bool) ([]models.CaseReply, error)

	// Timeline operations
	CreateTimelineEvent(event *models.CaseTimelineEvent) error
	FindTimeline(caseID string) ([]models.CaseTimelineEvent, error)
}

type CaseFilter struct {
	UserID   string
	Status   models.CaseStatus
	Type     models.CaseType
	Page     int
	PageSize int
}

type CaseRepositoryImpl struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &CaseRepositoryImpl{db: db}
}

func (r *CaseRepositoryImpl) Create(c *models.Case) error {
	return r.db.Create(c).Error
}

func (r *CaseRepositoryImpl) Update(c *models.Case) error {
	return r.db.Save(c).Error
}

func (r *CaseRepositoryImpl) FindByID(id string) (*models.Case, error) {
	var c models.Case
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepositoryImpl) FindByUser(userID string) ([]models.Case, error) {
	var cases []models.Case
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cases).Error
	return cases, err
}

func (r *CaseRepositoryImpl) FindWithFilter(filter CaseFilter) ([]models.Case, int64, error) {
	query := r.db.Model(&models.Case{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	var cases []models.Case
	err := query.Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&cases).Error
	if err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

func (r *CaseRepositoryImpl) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Case{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// NextCaseNumber produces a year-scoped sequential case number like
// C-2026-00042. Concurrent submissions may retry on the unique index.
func (r *CaseRepositoryImpl) NextCaseNumber() (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("C-%d-", year)

	var count int64
	err := r.db.Model(&models.Case{}).
		Where("case_number LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (r *CaseRepositoryImpl) CreateReply(reply *models.CaseReply) error {
	return r.db.Create(reply).Error
}

func (r *CaseRepositoryImpl) FindReplies(caseID string, clientVisibleOnly bool) ([]models.CaseReply, error) {
	query := r.db.Where("case_id = ?", caseID)
	if clientVisibleOnly {
		query = query.Where("visible_for_client = ?", true)
	}

	var replies []models.CaseReply
	err := query.Order("created_at ASC").Find(&replies).Error
	return replies, err
}

func (r *CaseRepositoryImpl) CreateTimelineEvent(event *models.CaseTimelineEvent) error {
	return r.db.Create(event).Error
}

func (r *CaseRepositoryImpl) FindTimeline(caseID string) ([]models.CaseTimelineEvent, error) {
	var events []models.CaseTimelineEvent
	err := r.db.Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}
