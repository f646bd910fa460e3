package repositories

import (
	"aic_backend/internal/models"

	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(db *gorm.DB, msg *models.ContactMessage) error
	FindAll(db *gorm.DB, page, pageSize int) ([]models.ContactMessage, int64, error)
}

type ContactRepositoryImpl struct{}

func NewContactRepository() ContactRepository {
	return &ContactRepositoryImpl{}
}

func (r *ContactRepositoryImpl) Create(db *gorm.DB, msg *models.ContactMessage) error {
	return db.Create(msg).Error
}

func (r *ContactRepositoryImpl) FindAll(db *gorm.DB, page, pageSize int) ([]models.ContactMessage, int64, error) {
	var total int64
	if err := db.Model(&models.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var messages []models.ContactMessage
	err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
