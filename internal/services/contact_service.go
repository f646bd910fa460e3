package services

import (
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/services/dto"
	"aic_backend/internal/validator"
	"aic_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ContactService interface {
	Submit(db *gorm.DB, req *dto.ContactRequest) (*models.ContactMessage, error)
	List(db *gorm.DB, query *dto.ContactListQuery) ([]models.ContactMessage, int64, error)
}

type ContactServiceImpl struct {
	contactRepo repositories.ContactRepository
	validator   *validator.Validator
}

func NewContactService(contactRepo repositories.ContactRepository, v *validator.Validator) ContactService {
	return &ContactServiceImpl{
		contactRepo: contactRepo,
		validator:   v,
	}
}

func (s *ContactServiceImpl) Submit(db *gorm.DB, req *dto.ContactRequest) (*models.ContactMessage, error) {
	if err := s.validator.Validate(req); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			return nil, apperrors.ValidationError(vErr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(db, msg); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return msg, nil
}

func (s *ContactServiceImpl) List(db *gorm.DB, query *dto.ContactListQuery) ([]models.ContactMessage, int64, error) {
	messages, total, err := s.contactRepo.FindAll(db, query.Page, query.PageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return messages, total, nil
}
