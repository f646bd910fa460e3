package repositories

import (
	"aic_backend/internal/models"

	"gorm.io/gorm"
)

type LoanNoteRepository interface {
	Create(db *gorm.DB, note *models.LoanNote) error
	FindByLoan(db *gorm.DB, loanID string) ([]models.LoanNote, error)
}

type LoanNoteRepositoryImpl struct{}

func NewLoanNoteRepository() LoanNoteRepository {
	return &LoanNoteRepositoryImpl{}
}

func (r *LoanNoteRepositoryImpl) Create(db *gorm.DB, note *models.LoanNote) error {
	return db.Create(note).Error
}

func (r *LoanNoteRepositoryImpl) FindByLoan(db *gorm.DB, loanID string) ([]models.LoanNote, error) {
	var notes []models.LoanNote
	err := db.
		Preload("Author").
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}
