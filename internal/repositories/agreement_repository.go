package repositories

import (
	"errors"

	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAgreementNotFound = errors.New("agreement not found")
	ErrTemplateNotFound  = errors.New("agreement template not found")
)

type AgreementRepository interface {
	Create(agreement *models.Agreement) error
	Update(agreement *models.Agreement) error
	FindByID(id string) (*models.Agreement, error)
	FindByToken(token string) (*models.Agreement, error)
	FindByUser(userID string) ([]models.Agreement, error)
	// NewestIncompleteForUser returns the most recently sent agreement
	// that is not yet completed, or ErrAgreementNotFound.
	NewestIncompleteForUser(userID string) (*models.Agreement, error)
	FindWithFilter(filter AgreementFilter) ([]models.Agreement, int64, error)

	// Template operations
	CreateTemplate(tpl *models.AgreementTemplate) error
	UpdateTemplate(tpl *models.AgreementTemplate) error
	FindTemplateByID(id string) (*models.AgreementTemplate, error)
	FindTemplates(activeOnly bool) ([]models.AgreementTemplate, error)
}

type AgreementFilter struct {
	UserID   string
	Status   models.AgreementStatus
	Page     int
	PageSize int
}

type AgreementRepositoryImpl struct {
	db *gorm.DB
}

func NewAgreementRepository(db *gorm.DB) AgreementRepository {
	return &AgreementRepositoryImpl{db: db}
}

func (r *AgreementRepositoryImpl) Create(agreement *models.Agreement) error {
	return r.db.Create(agreement).Error
}

func (r *AgreementRepositoryImpl) Update(agreement *models.Agreement) error {
	return r.db.Save(agreement).Error
}

func (r *AgreementRepositoryImpl) FindByID(id string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.db.Where("id = ?", id).First(&agreement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return &agreement, nil
}

func (r *AgreementRepositoryImpl) FindByToken(token string) (*models.Agreement, error) {
	var agreement models.Agreement
	err := r.db.Where("token = ?", token).First(&agreement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return &agreement, nil
}

func (r *AgreementRepositoryImpl) FindByUser(userID string) ([]models.Agreement, error) {
	var agreements []models.Agreement
	err := r.db.Where("user_id = ?", userID).
		Order("sent_at DESC").
		Find(&agreements).Error
	return agreements, err
}

func (r *AgreementRepositoryImpl) NewestIncompleteForUser(userID string) (*models.Agreement, error) {
	agreements, err := r.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	// Completion depends on PaymentRequired, so it is decided in Go
	// rather than in SQL.
	for i := range agreements {
		a := &agreements[i]
		if a.Status == models.AgreementStatusExpired {
			continue
		}
		if !a.IsCompleted() {
			return a, nil
		}
	}
	return nil, ErrAgreementNotFound
}

func (r *AgreementRepositoryImpl) FindWithFilter(filter AgreementFilter) ([]models.Agreement, int64, error) {
	query := r.db.Model(&models.Agreement{})

	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	var agreements []models.Agreement
	err := query.Order("sent_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&agreements).Error
	if err != nil {
		return nil, 0, err
	}
	return agreements, total, nil
}

func (r *AgreementRepositoryImpl) CreateTemplate(tpl *models.AgreementTemplate) error {
	return r.db.Create(tpl).Error
}

func (r *AgreementRepositoryImpl) UpdateTemplate(tpl *models.AgreementTemplate) error {
	return r.db.Save(tpl).Error
}

func (r *AgreementRepositoryImpl) FindTemplateByID(id string) (*models.AgreementTemplate, error) {
	var tpl models.AgreementTemplate
	err := r.db.Where("id = ?", id).First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *AgreementRepositoryImpl) FindTemplates(activeOnly bool) ([]models.AgreementTemplate, error) {
	query := r.db.Model(&models.AgreementTemplate{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.AgreementTemplate
	err := query.Order("created_at DESC").Find(&templates).Error
	return templates, err
}
