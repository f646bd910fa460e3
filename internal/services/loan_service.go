package services

import (
	"encoding/json"
	"time"

	"aic_backend/internal/email"
	"aic_backend/internal/logger"
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/services/dto"
	"aic_backend/internal/validator"
	"aic_backend/pkg/apperrors"

	"github.com/patrickmn/go-cache"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dashboardStatsKey = "dashboard_stats"

type LoanService interface {
	Create(db *gorm.DB, userID string, req *dto.CreateLoanRequest) (*models.LoanRequest, error)
	GetByID(db *gorm.DB, id string) (*models.LoanRequest, error)
	ListByUser(db *gorm.DB, userID string) ([]models.LoanRequest, error)
	ListAll(db *gorm.DB, query *dto.LoanListQuery) (*dto.LoanListResponse, error)
	UpdateStatus(db *gorm.DB, loanID, actorID string, req *dto.UpdateLoanStatusRequest) (*models.LoanRequest, error)
	Assign(db *gorm.DB, loanID, actorID string, req *dto.AssignLoanRequest) (*models.LoanRequest, error)
	AddNote(db *gorm.DB, loanID, authorID string, req *dto.AddNoteRequest) (*models.LoanNote, error)
	GetNotes(db *gorm.DB, loanID string) ([]models.LoanNote, error)
	GetActivities(db *gorm.DB, loanID string) ([]models.LoanActivity, error)
	DashboardStats(db *gorm.DB) (*dto.DashboardStats, error)
}

type LoanServiceImpl struct {
	loanRepo      repositories.LoanRepository
	noteRepo      repositories.LoanNoteRepository
	activityRepo  repositories.LoanActivityRepository
	profileRepo   repositories.ProfileRepository
	userRepo      repositories.UserRepository
	emailProvider email.Provider
	validator     *validator.Validator
	statsCache    *cache.Cache
}

func NewLoanService(
	loanRepo repositories.LoanRepository,
	noteRepo repositories.LoanNoteRepository,
	activityRepo repositories.LoanActivityRepository,
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	v *validator.Validator,
) LoanService {
	return &LoanServiceImpl{
		loanRepo:      loanRepo,
		noteRepo:      noteRepo,
		activityRepo:  activityRepo,
		profileRepo:   profileRepo,
		userRepo:      userRepo,
		emailProvider: emailProvider,
		validator:     v,
		statsCache:    cache.New(30*time.Second, time.Minute),
	}
}

func (s *LoanServiceImpl) Create(db *gorm.DB, userID string, req *dto.CreateLoanRequest) (*models.LoanRequest, error) {
	if err := s.validator.Validate(req); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			return nil, apperrors.ValidationError(vErr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}

	loan := &models.LoanRequest{
		UserID:         userID,
		Purpose:        req.Purpose,
		Amount:         req.Amount,
		DurationMonths: req.DurationMonths,
		MonthlyIncome:  req.MonthlyIncome,
		Description:    req.Description,
		Status:         models.LoanStatusPending,
	}
	if err := s.loanRepo.Create(db, loan); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.statsCache.Delete(dashboardStatsKey)
	return loan, nil
}

func (s *LoanServiceImpl) GetByID(db *gorm.DB, id string) (*models.LoanRequest, error) {
	loan, err := s.loanRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrLoanNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return loan, nil
}

func (s *LoanServiceImpl) ListByUser(db *gorm.DB, userID string) ([]models.LoanRequest, error) {
	loans, err := s.loanRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return loans, nil
}

func (s *LoanServiceImpl) ListAll(db *gorm.DB, query *dto.LoanListQuery) (*dto.LoanListResponse, error) {
	loans, total, err := s.loanRepo.FindAll(db, query.Page, query.PageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	return &dto.LoanListResponse{
		Loans:    loans,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateStatus applies a review decision. The loan row is locked, the
// transition is checked against the state machine, and the status change
// plus its activity row commit together or not at all.
func (s *LoanServiceImpl) UpdateStatus(db *gorm.DB, loanID, actorID string, req *dto.UpdateLoanStatusRequest) (*models.LoanRequest, error) {
	target, err := models.ParseLoanStatus(req.Status)
	if err != nil {
		return nil, apperrors.ErrInvalidLoanStatus
	}

	var oldStatus models.LoanStatus
	var loan *models.LoanRequest

	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		loan, txErr = s.loanRepo.FindByIDForUpdate(tx, loanID)
		if txErr != nil {
			if apperrors.Is(txErr, repositories.ErrLoanNotFound) {
				return apperrors.ErrLoanNotFound
			}
			return apperrors.InternalError(txErr)
		}

		oldStatus = loan.Status
		if oldStatus == target {
			// Replayed decision, nothing to do.
			return nil
		}
		if !oldStatus.CanTransition(target) {
			return apperrors.InvalidTransition(string(oldStatus), string(target))
		}

		loan.Status = target
		if target == models.LoanStatusApproved {
			loan.ApprovedAmount = req.ApprovedAmount
			loan.InterestRate = req.InterestRate
			loan.MonthlyPayment = req.MonthlyPayment
		}
		if txErr := s.loanRepo.Save(tx, loan); txErr != nil {
			return apperrors.InternalError(txErr)
		}

		activity := &models.LoanActivity{
			LoanID:       loan.ID,
			ActivityType: models.ActivityStatusChange,
			OldValue:     string(oldStatus),
			NewValue:     string(target),
			ActorID:      actorID,
		}
		if meta := approvalMetadata(target, req); meta != nil {
			activity.Metadata = meta
		}
		if txErr := s.activityRepo.Create(tx, activity); txErr != nil {
			return apperrors.InternalError(txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.statsCache.Delete(dashboardStatsKey)

	if oldStatus != loan.Status {
		s.notifyStatusChange(db, loan, oldStatus)
	}
	return loan, nil
}

// Assign sets or clears the reviewer. Only admins and collaborators are
// valid assignees.
func (s *LoanServiceImpl) Assign(db *gorm.DB, loanID, actorID string, req *dto.AssignLoanRequest) (*models.LoanRequest, error) {
	if req.AssigneeID != nil {
		assignee, err := s.profileRepo.FindByID(db, *req.AssigneeID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProfileNotFound) {
				return nil, apperrors.ErrAssigneeNotAllowed
			}
			return nil, apperrors.InternalError(err)
		}
		if assignee.Role != models.UserRoleAdmin && assignee.Role != models.UserRoleCollaborator {
			return nil, apperrors.ErrAssigneeNotAllowed
		}
	}

	var loan *models.LoanRequest
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		loan, txErr = s.loanRepo.FindByIDForUpdate(tx, loanID)
		if txErr != nil {
			if apperrors.Is(txErr, repositories.ErrLoanNotFound) {
				return apperrors.ErrLoanNotFound
			}
			return apperrors.InternalError(txErr)
		}

		oldAssignee := ""
		if loan.AssignedTo != nil {
			oldAssignee = *loan.AssignedTo
		}
		newAssignee := ""
		if req.AssigneeID != nil {
			newAssignee = *req.AssigneeID
		}
		if oldAssignee == newAssignee {
			return nil
		}

		loan.AssignedTo = req.AssigneeID
		if txErr := s.loanRepo.Save(tx, loan); txErr != nil {
			return apperrors.InternalError(txErr)
		}

		activity := &models.LoanActivity{
			LoanID:       loan.ID,
			ActivityType: models.ActivityAssignment,
			OldValue:     oldAssignee,
			NewValue:     newAssignee,
			ActorID:      actorID,
		}
		if txErr := s.activityRepo.Create(tx, activity); txErr != nil {
			return apperrors.InternalError(txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *LoanServiceImpl) AddNote(db *gorm.DB, loanID, authorID string, req *dto.AddNoteRequest) (*models.LoanNote, error) {
	if err := s.validator.Validate(req); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			return nil, apperrors.ValidationError(vErr.Errors)
		}
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.loanRepo.FindByID(db, loanID); err != nil {
		if apperrors.Is(err, repositories.ErrLoanNotFound) {
			return nil, apperrors.ErrLoanNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	note := &models.LoanNote{
		LoanID: loanID,
		UserID: authorID,
		Note:   req.Note,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.noteRepo.Create(tx, note); err != nil {
			return apperrors.InternalError(err)
		}
		activity := &models.LoanActivity{
			LoanID:       loanID,
			ActivityType: models.ActivityComment,
			NewValue:     note.ID,
			ActorID:      authorID,
		}
		if err := s.activityRepo.Create(tx, activity); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *LoanServiceImpl) GetNotes(db *gorm.DB, loanID string) ([]models.LoanNote, error) {
	notes, err := s.noteRepo.FindByLoan(db, loanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return notes, nil
}

func (s *LoanServiceImpl) GetActivities(db *gorm.DB, loanID string) ([]models.LoanActivity, error) {
	activities, err := s.activityRepo.FindByLoan(db, loanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activities, nil
}

// DashboardStats aggregates the admin dashboard numbers. Results are
// cached briefly; writes that change them invalidate the cache.
func (s *LoanServiceImpl) DashboardStats(db *gorm.DB) (*dto.DashboardStats, error) {
	if cached, ok := s.statsCache.Get(dashboardStatsKey); ok {
		return cached.(*dto.DashboardStats), nil
	}

	byStatus, err := s.loanRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var total int64
	for _, n := range byStatus {
		total += n
	}

	clients, err := s.userRepo.CountByRole(db, models.UserRoleClient)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	recent, err := s.loanRepo.FindRecent(db, 5)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.DashboardStats{
		TotalLoans:   total,
		TotalClients: clients,
		ByStatus:     byStatus,
		RecentLoans:  recent,
		ComputedAt:   time.Now(),
	}
	s.statsCache.Set(dashboardStatsKey, stats, cache.DefaultExpiration)
	return stats, nil
}

func (s *LoanServiceImpl) notifyStatusChange(db *gorm.DB, loan *models.LoanRequest, oldStatus models.LoanStatus) {
	owner, err := s.profileRepo.FindByID(db, loan.UserID)
	if err != nil {
		logger.Warn("failed to load loan owner for notification", "loan_id", loan.ID, "error", err)
		return
	}
	err = s.emailProvider.SendLoanStatusChanged(
		owner.Email,
		owner.FirstName,
		loan.ID,
		string(oldStatus),
		string(loan.Status),
	)
	if err != nil {
		logger.Warn("failed to send status change email", "loan_id", loan.ID, "error", err)
	}
}

func approvalMetadata(target models.LoanStatus, req *dto.UpdateLoanStatusRequest) datatypes.JSON {
	if target != models.LoanStatusApproved {
		return nil
	}
	meta := map[string]interface{}{}
	if req.ApprovedAmount != nil {
		meta["approved_amount"] = *req.ApprovedAmount
	}
	if req.InterestRate != nil {
		meta["interest_rate"] = *req.InterestRate
	}
	if req.MonthlyPayment != nil {
		meta["monthly_payment"] = *req.MonthlyPayment
	}
	if len(meta) == 0 {
		return nil
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
