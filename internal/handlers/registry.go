package handlers

import (
	"aic_backend/internal/services"
	"aic_backend/internal/validator"
)

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	LoanHandler     *LoanHandler
	DocumentHandler *DocumentHandler
	ContactHandler  *ContactHandler
}

func NewAppHandlers(container *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:     NewAuthHandler(base, container.AuthService),
		ProfileHandler:  NewProfileHandler(base, container.ProfileService),
		LoanHandler:     NewLoanHandler(base, container.LoanService),
		DocumentHandler: NewDocumentHandler(base, container.DocumentService, container.LoanService),
		ContactHandler:  NewContactHandler(base, container.ContactService),
	}
}
