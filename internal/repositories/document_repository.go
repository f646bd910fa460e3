package repositories

import (
	"errors"

	"aic_backend/internal/models"

	"gorm.io/gorm"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(db *gorm.DB, doc *models.Document) error
	FindByID(db *gorm.DB, id string) (*models.Document, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Document, error)
	FindByLoan(db *gorm.DB, loanID string) ([]models.Document, error)
	Delete(db *gorm.DB, id string) error
	// AllPaths returns every registered storage path. Used by the orphan
	// sweeper to diff the object store against the metadata rows.
	AllPaths(db *gorm.DB) ([]string, error)
}

type DocumentRepositoryImpl struct{}

func NewDocumentRepository() DocumentRepository {
	return &DocumentRepositoryImpl{}
}

func (r *DocumentRepositoryImpl) Create(db *gorm.DB, doc *models.Document) error {
	return db.Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	err := db.First(&doc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Document, error) {
	var docs []models.Document
	err := db.
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) FindByLoan(db *gorm.DB, loanID string) ([]models.Document, error) {
	var docs []models.Document
	err := db.
		Where("loan_id = ?", loanID).
		Order("uploaded_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) AllPaths(db *gorm.DB) ([]string, error) {
	var paths []string
	err := db.Model(&models.Document{}).Pluck("file_path", &paths).Error
	return paths, err
}
