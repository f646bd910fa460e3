package services

import (
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/services/dto"
	"aic_backend/internal/validator"
	"aic_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ClientDetail is the admin view of a client: the profile plus everything
// attached to it.
type ClientDetail struct {
	Profile   *models.Profile      `json:"profile"`
	Loans     []models.LoanRequest `json:"loans"`
	Documents []models.Document    `json:"documents"`
}

type ProfileService interface {
	GetByID(db *gorm.DB, id string) (*models.Profile, error)
	Update(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error)
	ListClients(db *gorm.DB, query *dto.ClientListQuery) ([]models.Profile, int64, error)
	ClientDetail(db *gorm.DB, clientID string) (*ClientDetail, error)
	ListReviewers(db *gorm.DB) ([]models.Profile, error)
	SetClientActive(db *gorm.DB, clientID string, active bool) error
}

type ProfileServiceImpl struct {
	profileRepo  repositories.ProfileRepository
	userRepo     repositories.UserRepository
	loanRepo     repositories.LoanRepository
	documentRepo repositories.DocumentRepository
	validator    *validator.Validator
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	loanRepo repositories.LoanRepository,
	documentRepo repositories.DocumentRepository,
	v *validator.Validator,
) ProfileService {
	return &ProfileServiceImpl{
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		loanRepo:     loanRepo,
		documentRepo: documentRepo,
		validator:    v,
	}
}

func (s *ProfileServiceImpl) GetByID(db *gorm.DB, id string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) Update(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			return nil, apperrors.ValidationError(vErr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}

	profile, err := s.GetByID(db, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		profile.FirstName = req.FirstName
	}
	if req.LastName != "" {
		profile.LastName = req.LastName
	}
	if req.Phone != "" {
		profile.Phone = req.Phone
	}
	if req.Address != "" {
		profile.Address = req.Address
	}

	if err := s.profileRepo.Update(db, profile); err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) ListClients(db *gorm.DB, query *dto.ClientListQuery) ([]models.Profile, int64, error) {
	profiles, total, err := s.profileRepo.Search(db, repositories.ProfileSearchCriteria{
		Role:     models.UserRoleClient,
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return profiles, total, nil
}

func (s *ProfileServiceImpl) ClientDetail(db *gorm.DB, clientID string) (*ClientDetail, error) {
	profile, err := s.GetByID(db, clientID)
	if err != nil {
		return nil, err
	}

	loans, err := s.loanRepo.FindByUser(db, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	docs, err := s.documentRepo.FindByUser(db, clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &ClientDetail{
		Profile:   profile,
		Loans:     loans,
		Documents: docs,
	}, nil
}

func (s *ProfileServiceImpl) ListReviewers(db *gorm.DB) ([]models.Profile, error) {
	reviewers, err := s.profileRepo.FindReviewers(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return reviewers, nil
}

func (s *ProfileServiceImpl) SetClientActive(db *gorm.DB, clientID string, active bool) error {
	if err := s.userRepo.SetActive(db, clientID, active); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
