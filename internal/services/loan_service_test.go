package services

import (
	"testing"

	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/services/dto"
	"aic_backend/internal/validator"
	"aic_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLoanService(mail *recordingEmailProvider) LoanService {
	return NewLoanService(
		repositories.NewLoanRepository(),
		repositories.NewLoanNoteRepository(),
		repositories.NewLoanActivityRepository(),
		repositories.NewProfileRepository(),
		repositories.NewUserRepository(),
		mail,
		validator.New(),
	)
}

func seedUser(t *testing.T, db *gorm.DB, emailAddr string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Email:        emailAddr,
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{
		ID:        user.ID,
		Email:     emailAddr,
		FirstName: "Test",
		Role:      role,
	}).Error)
	return user
}

func seedLoan(t *testing.T, db *gorm.DB, svc LoanService, userID string) *models.LoanRequest {
	t.Helper()
	loan, err := svc.Create(db, userID, &dto.CreateLoanRequest{
		Purpose:        "Fonds de roulement",
		Amount:         5_000_000,
		DurationMonths: 24,
		MonthlyIncome:  800_000,
	})
	require.NoError(t, err)
	return loan
}

func activityCount(t *testing.T, db *gorm.DB, loanID string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.LoanActivity{}).Where("loan_id = ?", loanID).Count(&count).Error)
	return count
}

func TestCreateLoanStartsPending(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	loan := seedLoan(t, db, svc, client.ID)

	assert.Equal(t, models.LoanStatusPending, loan.Status)
	assert.Nil(t, loan.AssignedTo)
	assert.Zero(t, activityCount(t, db, loan.ID))
}

func TestCreateLoanValidation(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	_, err := svc.Create(db, client.ID, &dto.CreateLoanRequest{
		Purpose:        "X",
		Amount:         -100,
		DurationMonths: 1,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestUpdateStatusLegalTransition(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	mail := &recordingEmailProvider{}
	svc := newLoanService(mail)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	rate := 8.5
	amount := 4_500_000.0
	updated, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{
		Status:         "approved",
		ApprovedAmount: &amount,
		InterestRate:   &rate,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedAmount)
	assert.Equal(t, amount, *updated.ApprovedAmount)

	// One status_change activity written in the same transaction.
	var activities []models.LoanActivity
	require.NoError(t, db.Where("loan_id = ?", loan.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityStatusChange, activities[0].ActivityType)
	assert.Equal(t, "pending", activities[0].OldValue)
	assert.Equal(t, "approved", activities[0].NewValue)
	assert.Equal(t, admin.ID, activities[0].ActorID)

	// Owner notified.
	assert.Equal(t, []string{"client@example.com:approved"}, mail.statuses)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	_, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: "rejected"})
	require.NoError(t, err)

	// Rejected is terminal: nothing moves it.
	for _, target := range []string{"pending", "in_progress", "approved", "completed"} {
		_, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: target})
		require.Error(t, err, target)

		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, apperrors.CodeInvalidTransition, appErr.Code)
	}

	// The failed attempts left no audit rows behind.
	assert.Equal(t, int64(1), activityCount(t, db, loan.ID))

	reloaded, err := svc.GetByID(db, loan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusRejected, reloaded.Status)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	_, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: "en_attente"})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidLoanStatus, appErr.Code)
}

func TestUpdateStatusReplayIsNoop(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	mail := &recordingEmailProvider{}
	svc := newLoanService(mail)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	_, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: "in_progress"})
	require.NoError(t, err)

	// Same decision again: accepted, but no extra audit row or email.
	_, err = svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: "in_progress"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), activityCount(t, db, loan.ID))
	assert.Len(t, mail.statuses, 1)
}

func TestFullLifecycle(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	for _, target := range []string{"in_progress", "approved", "completed"} {
		updated, err := svc.UpdateStatus(db, loan.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: target})
		require.NoError(t, err, target)
		assert.Equal(t, models.LoanStatus(target), updated.Status)
	}

	assert.Equal(t, int64(3), activityCount(t, db, loan.ID))
}

func TestAssignReviewer(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	reviewer := seedUser(t, db, "collab@example.com", models.UserRoleCollaborator)
	loan := seedLoan(t, db, svc, client.ID)

	updated, err := svc.Assign(db, loan.ID, admin.ID, &dto.AssignLoanRequest{AssigneeID: &reviewer.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, reviewer.ID, *updated.AssignedTo)

	var activities []models.LoanActivity
	require.NoError(t, db.Where("loan_id = ?", loan.ID).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityAssignment, activities[0].ActivityType)

	// Clearing the assignee is also recorded.
	updated, err = svc.Assign(db, loan.ID, admin.ID, &dto.AssignLoanRequest{AssigneeID: nil})
	require.NoError(t, err)
	assert.Nil(t, updated.AssignedTo)
	assert.Equal(t, int64(2), activityCount(t, db, loan.ID))
}

func TestAssignRejectsClientAssignee(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	_, err := svc.Assign(db, loan.ID, admin.ID, &dto.AssignLoanRequest{AssigneeID: &client.ID})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeAssigneeNotAllowed, appErr.Code)
}

func TestAddNoteWritesActivity(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)
	loan := seedLoan(t, db, svc, client.ID)

	note, err := svc.AddNote(db, loan.ID, admin.ID, &dto.AddNoteRequest{Note: "Dossier complet, à instruire"})
	require.NoError(t, err)
	assert.Equal(t, loan.ID, note.LoanID)

	notes, err := svc.GetNotes(db, loan.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	activities, err := svc.GetActivities(db, loan.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityComment, activities[0].ActivityType)
}

func TestDashboardStats(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	admin := seedUser(t, db, "admin@example.com", models.UserRoleAdmin)

	first := seedLoan(t, db, svc, client.ID)
	seedLoan(t, db, svc, client.ID)

	_, err := svc.UpdateStatus(db, first.ID, admin.ID, &dto.UpdateLoanStatusRequest{Status: "approved"})
	require.NoError(t, err)

	stats, err := svc.DashboardStats(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalLoans)
	assert.Equal(t, int64(1), stats.TotalClients)
	assert.Equal(t, int64(1), stats.ByStatus[models.LoanStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.LoanStatusApproved])
	assert.Len(t, stats.RecentLoans, 2)
}
