package repositories

import (
	"errors"

	"aic_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrLoanNotFound = errors.New("loan request not found")

type LoanRepository interface {
	Create(db *gorm.DB, loan *models.LoanRequest) error
	FindByID(db *gorm.DB, id string) (*models.LoanRequest, error)
	// FindByIDForUpdate locks the loan row for the enclosing transaction.
	FindByIDForUpdate(db *gorm.DB, id string) (*models.LoanRequest, error)
	FindByUser(db *gorm.DB, userID string) ([]models.LoanRequest, error)
	FindAll(db *gorm.DB, page, pageSize int) ([]models.LoanRequest, int64, error)
	Save(db *gorm.DB, loan *models.LoanRequest) error
	CountByStatus(db *gorm.DB) (map[models.LoanStatus]int64, error)
	FindRecent(db *gorm.DB, limit int) ([]models.LoanRequest, error)
}

type LoanRepositoryImpl struct{}

func NewLoanRepository() LoanRepository {
	return &LoanRepositoryImpl{}
}

func (r *LoanRepositoryImpl) Create(db *gorm.DB, loan *models.LoanRequest) error {
	return db.Create(loan).Error
}

func (r *LoanRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.LoanRequest, error) {
	var loan models.LoanRequest
	err := db.
		Preload("Owner").
		Preload("Assignee").
		Preload("Documents").
		First(&loan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *LoanRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.LoanRequest, error) {
	var loan models.LoanRequest
	query := db
	// SELECT ... FOR UPDATE is a no-op under sqlite, which keeps the
	// in-memory test databases usable.
	if db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := query.First(&loan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return &loan, nil
}

func (r *LoanRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.LoanRequest, error) {
	var loans []models.LoanRequest
	err := db.
		Preload("Assignee").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&loans).Error
	return loans, err
}

func (r *LoanRepositoryImpl) FindAll(db *gorm.DB, page, pageSize int) ([]models.LoanRequest, int64, error) {
	var total int64
	if err := db.Model(&models.LoanRequest{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var loans []models.LoanRequest
	err := db.
		Preload("Owner").
		Preload("Assignee").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&loans).Error
	if err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}

func (r *LoanRepositoryImpl) Save(db *gorm.DB, loan *models.LoanRequest) error {
	return db.Save(loan).Error
}

func (r *LoanRepositoryImpl) CountByStatus(db *gorm.DB) (map[models.LoanStatus]int64, error) {
	type statusCount struct {
		Status models.LoanStatus
		Count  int64
	}

	var rows []statusCount
	err := db.Model(&models.LoanRequest{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.LoanStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *LoanRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.LoanRequest, error) {
	if limit < 1 {
		limit = 5
	}
	var loans []models.LoanRequest
	err := db.
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Find(&loans).Error
	return loans, err
}
