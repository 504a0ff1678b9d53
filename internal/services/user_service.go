package services

import (
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.ProfileResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest, audit AuditContext) (*dto.ProfileResponse, error)
	Dashboard(userID string) (*dto.DashboardResponse, error)
	ListClients(filter repositories.ClientFilter) ([]dto.UserResponse, int64, error)
	GetClient(clientID string) (*dto.ProfileResponse, error)
}

type UserServiceImpl struct {
	userRepo        repositories.UserRepository
	caseService     CaseService
	folderService   FolderService
	appointmentRepo repositories.AppointmentRepository
	agreements      AgreementService
	auditService    AuditService
}

func NewUserService(
	userRepo repositories.UserRepository,
	caseService CaseService,
	folderService FolderService,
	appointmentRepo repositories.AppointmentRepository,
	agreements AgreementService,
	auditService AuditService,
) UserService {
	return &UserServiceImpl{
		userRepo:        userRepo,
		caseService:     caseService,
		folderService:   folderService,
		appointmentRepo: appointmentRepo,
		agreements:      agreements,
		auditService:    auditService,
	}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := profileResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest, audit AuditContext) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Phone != "" {
		user.Phone = req.Phone
		if err := s.userRepo.Update(user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID}
	}
	if req.FullName != "" {
		profile.FullName = req.FullName
	}
	if req.NationalID != "" {
		profile.NationalID = req.NationalID
	}
	if req.Address != "" {
		profile.Address = req.Address
	}
	if err := s.userRepo.SaveProfile(profile); err != nil {
		return nil, apperrors.InternalError(err)
	}
	user.Profile = profile

	s.auditService.Record(&userID, models.AuditProfileUpdate, audit)

	resp := profileResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) Dashboard(userID string) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	cases, err := s.caseService.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.folderService.UnreadCount(userID)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.DashboardResponse{
		User:           userResponse(user),
		Cases:          cases,
		UnreadMessages: unread,
		Appointments:   appointmentResponses(appointments),
	}

	// The pending box on the dashboard always shows the newest
	// incomplete agreement, if any.
	pending, err := s.agreements.NewestIncomplete(userID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		ar := agreementResponse(pending)
		resp.PendingAgreement = &ar
	}

	return resp, nil
}

func (s *UserServiceImpl) ListClients(filter repositories.ClientFilter) ([]dto.UserResponse, int64, error) {
	users, total, err := s.userRepo.FindClients(filter)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return out, total, nil
}

func (s *UserServiceImpl) GetClient(clientID string) (*dto.ProfileResponse, error) {
	return s.GetProfile(clientID)
}

func profileResponse(user *models.User) dto.ProfileResponse {
	resp := dto.ProfileResponse{UserResponse: userResponse(user)}
	if user.Profile != nil {
		resp.NationalID = user.Profile.NationalID
		resp.Address = user.Profile.Address
	}
	return resp
}
