package repositories

import (
	"aic_backend/internal/models"

	"gorm.io/gorm"
)

type LoanActivityRepository interface {
	Create(db *gorm.DB, activity *models.LoanActivity) error
	FindByLoan(db *gorm.DB, loanID string) ([]models.LoanActivity, error)
}

type LoanActivityRepositoryImpl struct{}

func NewLoanActivityRepository() LoanActivityRepository {
	return &LoanActivityRepositoryImpl{}
}

func (r *LoanActivityRepositoryImpl) Create(db *gorm.DB, activity *models.LoanActivity) error {
	return db.Create(activity).Error
}

func (r *LoanActivityRepositoryImpl) FindByLoan(db *gorm.DB, loanID string) ([]models.LoanActivity, error) {
	var activities []models.LoanActivity
	err := db.
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&activities).Error
	return activities, err
}
