package services

import (
	"testing"

	"aic_backend/internal/email"
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/services/dto"
	"aic_backend/internal/validator"
	"aic_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(emailProvider email.Provider) AuthService {
	return NewAuthService(
		repositories.NewUserRepository(),
		repositories.NewProfileRepository(),
		repositories.NewRefreshTokenRepository(),
		emailProvider,
		validator.New(),
	)
}

func registerClient(t *testing.T, db *gorm.DB, svc AuthService, emailAddr string) *dto.LoginResponse {
	t.Helper()
	resp, err := svc.Register(db, &dto.RegisterRequest{
		FullName: "Awa Diabaté",
		Email:    emailAddr,
		Password: "S3curePass",
		Phone:    "+225 0102030405",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	mail := &recordingEmailProvider{}
	svc := newAuthService(mail)

	resp := registerClient(t, db, svc, "awa@example.com")

	require.NotNil(t, resp.User)
	assert.Equal(t, "awa@example.com", resp.User.Email)
	assert.Equal(t, "client", resp.User.Role)
	assert.Equal(t, "Awa", resp.User.FirstName)
	assert.Equal(t, "Diabaté", resp.User.LastName)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	var profile models.Profile
	require.NoError(t, db.First(&profile, "id = ?", resp.User.ID).Error)
	assert.Equal(t, "Awa", profile.FirstName)

	assert.Equal(t, []string{"awa@example.com"}, mail.welcomes)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})

	registerClient(t, db, svc, "dup@example.com")

	_, err := svc.Register(db, &dto.RegisterRequest{
		FullName: "Someone Else",
		Email:    "dup@example.com",
		Password: "S3curePass",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeEmailAlreadyExists, appErr.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterWeakPasswordRejected(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})

	_, err := svc.Register(db, &dto.RegisterRequest{
		FullName: "Test User",
		Email:    "weak@example.com",
		Password: "short",
	})
	require.Error(t, err)

	// Nothing committed.
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogin(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})
	registerClient(t, db, svc, "login@example.com")

	resp, err := svc.Login(db, &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "S3curePass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(db, &dto.LoginRequest{
		Email:    "login@example.com",
		Password: "WrongPass1",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)

	_, err = svc.Login(db, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "S3curePass",
	})
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)
}

func TestLoginInactiveUser(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})
	resp := registerClient(t, db, svc, "inactive@example.com")

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("is_active", false).Error)

	_, err := svc.Login(db, &dto.LoginRequest{
		Email:    "inactive@example.com",
		Password: "S3curePass",
	})
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUserInactive, appErr.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})
	first := registerClient(t, db, svc, "refresh@example.com")

	second, err := svc.RefreshToken(db, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token is gone.
	_, err = svc.RefreshToken(db, first.RefreshToken)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidToken, appErr.Code)
}

func TestLogoutRemovesRefreshToken(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})
	resp := registerClient(t, db, svc, "logout@example.com")

	require.NoError(t, svc.Logout(db, resp.RefreshToken))

	_, err := svc.RefreshToken(db, resp.RefreshToken)
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	mail := &recordingEmailProvider{}
	svc := newAuthService(mail)
	resp := registerClient(t, db, svc, "reset@example.com")

	require.NoError(t, svc.RequestPasswordReset(db, "reset@example.com"))
	assert.Len(t, mail.resets, 1)

	// Unknown addresses get the same silent success.
	require.NoError(t, svc.RequestPasswordReset(db, "unknown@example.com"))
	assert.Len(t, mail.resets, 1)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.User.ID).Error)
	require.NotEmpty(t, user.ResetToken)

	require.NoError(t, svc.ResetPassword(db, user.ResetToken, "N3wPassword"))

	_, err := svc.Login(db, &dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "N3wPassword",
	})
	assert.NoError(t, err)

	// Old refresh tokens die with the password.
	_, err = svc.RefreshToken(db, resp.RefreshToken)
	assert.Error(t, err)

	// The token is single-use.
	err = svc.ResetPassword(db, user.ResetToken, "An0therPass")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newAuthService(&recordingEmailProvider{})
	resp := registerClient(t, db, svc, "change@example.com")

	err := svc.ChangePassword(db, resp.User.ID, "WrongCurrent1", "N3wPassword")
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeInvalidCredentials, appErr.Code)

	require.NoError(t, svc.ChangePassword(db, resp.User.ID, "S3curePass", "N3wPassword"))

	_, err = svc.Login(db, &dto.LoginRequest{
		Email:    "change@example.com",
		Password: "N3wPassword",
	})
	assert.NoError(t, err)
}
