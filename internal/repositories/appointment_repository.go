package repositories

import (
	"errors"
	"time"

	"lexportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(appointment *models.Appointment) error
	FindByID(id string) (*models.Appointment, error)
	FindByUser(userID string) ([]models.Appointment, error)
	FindUpcoming(from time.Time, limit int) ([]models.Appointment, error)
	Delete(id string) error
}

type AppointmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &AppointmentRepositoryImpl{db: db}
}

func (r *AppointmentRepositoryImpl) Create(appointment *models.Appointment) error {
	return r.db.Create(appointment).Error
}

func (r *AppointmentRepositoryImpl) FindByID(id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepositoryImpl) FindByUser(userID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.Where("user_id = ?", userID).
		Order("scheduled_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepositoryImpl) FindUpcoming(from time.Time, limit int) ([]models.Appointment, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var appointments []models.Appointment
	err := r.db.Where("scheduled_at >= ?", from).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepositoryImpl) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Appointment{}).Error
}
