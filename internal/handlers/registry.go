package handlers

import (
	"lexportal_backend/internal/services"
	"lexportal_backend/internal/validator"
)

// AppHandlers holds every HTTP handler.
type AppHandlers struct {
	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	CaseHandler      *CaseHandler
	AgreementHandler *AgreementHandler
	MessageHandler   *MessageHandler
	CatalogHandler   *CatalogHandler
	StaffHandler     *StaffHandler
}

// NewAppHandlers builds the handler registry from the service container.
func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:      NewAuthHandler(base, container.AuthService),
		UserHandler:      NewUserHandler(base, container.UserService),
		CaseHandler:      NewCaseHandler(base, container.CaseService),
		AgreementHandler: NewAgreementHandler(base, container.AgreementService),
		MessageHandler:   NewMessageHandler(base, container.FolderService),
		CatalogHandler:   NewCatalogHandler(base, container.CatalogService),
		StaffHandler: NewStaffHandler(
			base,
			container.AgreementService,
			container.CaseService,
			container.UserService,
			container.FolderService,
			container.AuditService,
		),
	}
}
