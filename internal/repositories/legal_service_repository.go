package repositories

import (
	"errors"

	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrLegalServiceNotFound = errors.New("legal service not found")

type LegalServiceRepository interface {
	Create(service *models.LegalService) error
	Update(service *models.LegalService) error
	FindByID(id string) (*models.LegalService, error)
	FindActive(serviceType models.LegalServiceType) ([]models.LegalService, error)
	FindAll() ([]models.LegalService, error)
}

type LegalServiceRepositoryImpl struct {
	db *gorm.DB
}

func NewLegalServiceRepository(db *gorm.DB) LegalServiceRepository {
	return &LegalServiceRepositoryImpl{db: db}
}

func (r *LegalServiceRepositoryImpl) Create(service *models.LegalService) error {
	return r.db.Create(service).Error
}

func (r *LegalServiceRepositoryImpl) Update(service *models.LegalService) error {
	return r.db.Save(service).Error
}

func (r *LegalServiceRepositoryImpl) FindByID(id string) (*models.LegalService, error) {
	var service models.LegalService
	err := r.db.Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLegalServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *LegalServiceRepositoryImpl) FindActive(serviceType models.LegalServiceType) ([]models.LegalService, error) {
	query := r.db.Where("is_active = ?", true)
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}

	var services []models.LegalService
	err := query.Order("sort_order ASC, created_at ASC").Find(&services).Error
	return services, err
}

func (r *LegalServiceRepositoryImpl) FindAll() ([]models.LegalService, error) {
	var services []models.LegalService
	err := r.db.Order("sort_order ASC, created_at ASC").Find(&services).Error
	return services, err
}
