package services

import (
	"context"
	"time"

	"lexportal_backend/internal/auth"
	"lexportal_backend/internal/logger"
	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/security"
	"lexportal_backend/internal/services/dto"
	"lexportal_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest, audit AuditContext) (*dto.UserResponse, error)
	// Login checks the lockout counter before touching credentials. The
	// ip parameter keys the lockout together with the username.
	Login(ctx context.Context, req *dto.LoginRequest, ip string, audit AuditContext) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(userID, refreshToken string, audit AuditContext) error
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	auditService AuditService
	lockout      *security.LoginLockout
}

func NewAuthService(
	userRepo repositories.UserRepository,
	auditService AuditService,
	lockout *security.LoginLockout,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		auditService: auditService,
		lockout:      lockout,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest, audit AuditContext) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		Phone:         req.Phone,
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusActive,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.FullName != "" {
		profile := &models.UserProfile{
			UserID:   user.ID,
			FullName: req.FullName,
		}
		if err := s.userRepo.SaveProfile(profile); err != nil {
			logger.WithError(err).Error("failed to save profile on registration", "user_id", user.ID)
		}
	}

	resp := userResponse(user)
	resp.FullName = req.FullName
	return &resp, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest, ip string, audit AuditContext) (*dto.LoginResponse, error) {
	// Lockout is checked first so locked pairs never reach bcrypt.
	if s.lockout != nil && s.lockout.IsLocked(ctx, ip, req.Username) {
		s.auditService.Record(nil, models.AuditSecurityBlock, withMeta(audit, map[string]interface{}{
			"username": req.Username,
			"reason":   "login_lockout",
		}))
		return nil, apperrors.ErrAccountLocked
	}

	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			s.registerLoginFailure(ctx, ip, req.Username, audit)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.registerLoginFailure(ctx, ip, req.Username, audit)
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.lockout != nil {
		s.lockout.Clear(ctx, ip, req.Username)
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(&user.ID, models.AuditAuthLogin, audit)
	return resp, nil
}

func (s *AuthServiceImpl) registerLoginFailure(ctx context.Context, ip, username string, audit AuditContext) {
	if s.lockout != nil {
		s.lockout.RegisterFail(ctx, ip, username)
	}
	s.auditService.Record(nil, models.AuditAuthFailed, withMeta(audit, map[string]interface{}{
		"username": username,
	}))
}

func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Rotate: the presented token is consumed.
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(userID, refreshToken string, audit AuditContext) error {
	if refreshToken != "" {
		if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
			return apperrors.InternalError(err)
		}
	} else if err := s.userRepo.DeleteUserRefreshTokens(userID); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(&userID, models.AuditAuthLogout, audit)
	return nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := auth.GenerateOpaqueToken()
	if err := s.userRepo.CreateRefreshToken(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         userResponse(user),
	}, nil
}

func userResponse(user *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Phone:         user.Phone,
		Role:          string(user.Role),
		AccountStatus: string(user.AccountStatus),
	}
	if user.Profile != nil {
		resp.FullName = user.Profile.FullName
	}
	return resp
}

func withMeta(audit AuditContext, meta map[string]interface{}) AuditContext {
	if audit.Meta == nil {
		audit.Meta = make(map[string]interface{}, len(meta))
	}
	for k, v := range meta {
		audit.Meta[k] = v
	}
	return audit
}
