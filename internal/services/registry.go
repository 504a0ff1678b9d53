package services

import (
	"lexportal_backend/internal/cache"
	"lexportal_backend/internal/config"
	"lexportal_backend/internal/email"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/internal/security"
	"lexportal_backend/internal/storage"

	"gorm.io/gorm"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService      AuthService
	UserService      UserService
	CaseService      CaseService
	AgreementService AgreementService
	FolderService    FolderService
	CatalogService   CatalogService
	AuditService     AuditService

	UserRepo repositories.UserRepository
	Limiter  *security.FixedWindowLimiter
}

// NewServiceContainer wires repositories and services together.
func NewServiceContainer(
	db *gorm.DB,
	store storage.Storage,
	emailProvider email.Provider,
	cacheBackend cache.Cache,
	cfg *config.Config,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	agreementRepo := repositories.NewAgreementRepository(db)
	caseRepo := repositories.NewCaseRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	folderRepo := repositories.NewFolderRepository(db)
	serviceRepo := repositories.NewLegalServiceRepository(db)
	appointmentRepo := repositories.NewAppointmentRepository(db)

	lockout := security.NewLoginLockout(cacheBackend, cfg.LockoutWindow(), cfg.Lockout.MaxFails)
	limiter := security.NewFixedWindowLimiter(cacheBackend, "ratelimit", cfg.RateLimitWindow(), cfg.RateLimit.MaxRequests)

	auditService := NewAuditService(auditRepo)
	authService := NewAuthService(userRepo, auditService, lockout)
	caseService := NewCaseService(caseRepo, auditService)
	agreementService := NewAgreementService(agreementRepo, userRepo, auditService, store, emailProvider, cfg)
	folderService := NewFolderService(folderRepo, auditService, store, cfg)
	catalogService := NewCatalogService(serviceRepo, appointmentRepo)
	userService := NewUserService(userRepo, caseService, folderService, appointmentRepo, agreementService, auditService)

	return &ServiceContainer{
		AuthService:      authService,
		UserService:      userService,
		CaseService:      caseService,
		AgreementService: agreementService,
		FolderService:    folderService,
		CatalogService:   catalogService,
		AuditService:     auditService,
		UserRepo:         userRepo,
		Limiter:          limiter,
	}
}
