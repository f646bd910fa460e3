package repositories

import (
	"errors"
	"strings"

	"aic_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user")
)

// ProfileSearchCriteria filters the admin client listing.
type ProfileSearchCriteria struct {
	Role     models.UserRole `form:"role"`
	Search   string          `form:"search"`
	Page     int             `form:"page" binding:"min=0"`
	PageSize int             `form:"page_size" binding:"min=0,max=100"`
}

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	Update(db *gorm.DB, profile *models.Profile) error
	Search(db *gorm.DB, criteria ProfileSearchCriteria) ([]models.Profile, int64, error)
	FindReviewers(db *gorm.DB) ([]models.Profile, error)
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	var existing models.Profile
	if err := db.Where("id = ?", profile.ID).First(&existing).Error; err == nil {
		return ErrProfileAlreadyExists
	}

	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	result := db.Model(profile).Updates(map[string]interface{}{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
		"phone":      profile.Phone,
		"address":    profile.Address,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) Search(db *gorm.DB, criteria ProfileSearchCriteria) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if s := strings.TrimSpace(criteria.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var profiles []models.Profile
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// FindReviewers returns everyone a loan can be assigned to.
func (r *ProfileRepositoryImpl) FindReviewers(db *gorm.DB) ([]models.Profile, error) {
	var profiles []models.Profile
	err := db.
		Where("role IN ?", []models.UserRole{models.UserRoleAdmin, models.UserRoleCollaborator}).
		Order("first_name ASC").
		Find(&profiles).Error
	return profiles, err
}
