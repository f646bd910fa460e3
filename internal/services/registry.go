package services

import (
	"aic_backend/internal/email"
	"aic_backend/internal/repositories"
	"aic_backend/internal/storage"
	"aic_backend/internal/validator"
)

// ServiceContainer wires every service with its repositories. Repositories
// are stateless; the *gorm.DB handle travels with each call.
type ServiceContainer struct {
	AuthService     AuthService
	ProfileService  ProfileService
	LoanService     LoanService
	DocumentService DocumentService
	ContactService  ContactService

	Storage       storage.Storage
	EmailProvider email.Provider
	Repositories  *RepositoryContainer
}

// RepositoryContainer groups the repositories for callers that need direct
// access (seeding, background workers).
type RepositoryContainer struct {
	User         repositories.UserRepository
	Profile      repositories.ProfileRepository
	RefreshToken repositories.RefreshTokenRepository
	Loan         repositories.LoanRepository
	LoanNote     repositories.LoanNoteRepository
	LoanActivity repositories.LoanActivityRepository
	Document     repositories.DocumentRepository
	Contact      repositories.ContactRepository
}

func NewServiceContainer(store storage.Storage, emailProvider email.Provider) *ServiceContainer {
	v := validator.New()

	repos := &RepositoryContainer{
		User:         repositories.NewUserRepository(),
		Profile:      repositories.NewProfileRepository(),
		RefreshToken: repositories.NewRefreshTokenRepository(),
		Loan:         repositories.NewLoanRepository(),
		LoanNote:     repositories.NewLoanNoteRepository(),
		LoanActivity: repositories.NewLoanActivityRepository(),
		Document:     repositories.NewDocumentRepository(),
		Contact:      repositories.NewContactRepository(),
	}

	return &ServiceContainer{
		AuthService: NewAuthService(repos.User, repos.Profile, repos.RefreshToken, emailProvider, v),
		ProfileService: NewProfileService(
			repos.Profile, repos.User, repos.Loan, repos.Document, v,
		),
		LoanService: NewLoanService(
			repos.Loan, repos.LoanNote, repos.LoanActivity, repos.Profile, repos.User, emailProvider, v,
		),
		DocumentService: NewDocumentService(repos.Document, repos.Loan, repos.LoanActivity, store),
		ContactService:  NewContactService(repos.Contact, v),

		Storage:       store,
		EmailProvider: emailProvider,
		Repositories:  repos,
	}
}
