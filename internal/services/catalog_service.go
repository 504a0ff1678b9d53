package services

import (
	"time"

	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

// CatalogService covers the public landing-page cards and client
// appointments.
type CatalogService interface {
	ListServices(serviceType string) ([]dto.LegalServiceResponse, error)

	CreateAppointment(userID string, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAppointments(userID string) ([]dto.AppointmentResponse, error)
	CancelAppointment(appointmentID, userID string) error
	ListUpcoming(limit int) ([]dto.AppointmentResponse, error)
}

type CatalogServiceImpl struct {
	serviceRepo     repositories.LegalServiceRepository
	appointmentRepo repositories.AppointmentRepository
}

func NewCatalogService(
	serviceRepo repositories.LegalServiceRepository,
	appointmentRepo repositories.AppointmentRepository,
) CatalogService {
	return &CatalogServiceImpl{
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (s *CatalogServiceImpl) ListServices(serviceType string) ([]dto.LegalServiceResponse, error) {
	services, err := s.serviceRepo.FindActive(models.LegalServiceType(serviceType))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.LegalServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, dto.LegalServiceResponse{
			ID:          svc.ID,
			Title:       svc.Title,
			Description: svc.Description,
			Icon:        svc.Icon,
			ImagePath:   svc.ImagePath,
			ServiceType: string(svc.ServiceType),
		})
	}
	return out, nil
}

func (s *CatalogServiceImpl) CreateAppointment(userID string, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if req.ScheduledAt.Before(time.Now()) {
		return nil, apperrors.ErrInvalidOperation("appointment", "Appointments cannot be scheduled in the past")
	}

	appointment := &models.Appointment{
		UserID:      userID,
		Subject:     req.Subject,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}
	if err := s.appointmentRepo.Create(appointment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := appointmentResponse(appointment)
	return &resp, nil
}

func (s *CatalogServiceImpl) ListAppointments(userID string) ([]dto.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return appointmentResponses(appointments), nil
}

func (s *CatalogServiceImpl) CancelAppointment(appointmentID, userID string) error {
	appointment, err := s.appointmentRepo.FindByID(appointmentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrAppointmentNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if appointment.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.appointmentRepo.Delete(appointmentID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *CatalogServiceImpl) ListUpcoming(limit int) ([]dto.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.FindUpcoming(time.Now(), limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return appointmentResponses(appointments), nil
}

func appointmentResponse(a *models.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          a.ID,
		Subject:     a.Subject,
		ScheduledAt: a.ScheduledAt,
		Notes:       a.Notes,
	}
}

func appointmentResponses(appointments []models.Appointment) []dto.AppointmentResponse {
	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		out = append(out, appointmentResponse(&appointments[i]))
	}
	return out
}
