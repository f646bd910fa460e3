package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentService(store *fakeStorage) DocumentService {
	return NewDocumentService(
		repositories.NewDocumentRepository(),
		repositories.NewLoanRepository(),
		repositories.NewLoanActivityRepository(),
		store,
	)
}

// multipartFile builds a *multipart.FileHeader the way gin hands it to
// handlers.
func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func TestUploadDocument(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	svc := newDocumentService(store)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	file := multipartFile(t, "cni.pdf", []byte("%PDF-1.4 fake"))
	doc, err := svc.Upload(context.Background(), db, client.ID, nil, "identity", file)
	require.NoError(t, err)

	assert.Equal(t, "cni.pdf", doc.FileName)
	assert.Equal(t, "pdf", doc.FileType)
	assert.Equal(t, models.DocumentCategoryIdentity, doc.Category)
	assert.Nil(t, doc.LoanID)

	exists, err := store.Exists(context.Background(), doc.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	svc := newDocumentService(store)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	big := make([]byte, 11*1024*1024)
	file := multipartFile(t, "releves.pdf", big)

	_, err := svc.Upload(context.Background(), db, client.ID, nil, "bank", file)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeFileTooLarge, appErr.Code)

	// Rejected before touching storage.
	assert.Zero(t, store.saves)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	svc := newDocumentService(store)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	for _, name := range []string{"malware.exe", "script.sh", "archive.zip", "noextension"} {
		file := multipartFile(t, name, []byte("data"))
		_, err := svc.Upload(context.Background(), db, client.ID, nil, "", file)

		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr), name)
		assert.Equal(t, apperrors.CodeInvalidFileType, appErr.Code, name)
	}
	assert.Zero(t, store.saves)
}

func TestUploadToLoanWritesActivity(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	docSvc := newDocumentService(store)
	loanSvc := newLoanService(&recordingEmailProvider{})
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)
	loan := seedLoan(t, db, loanSvc, client.ID)

	file := multipartFile(t, "bulletin.pdf", []byte("salary slip"))
	doc, err := docSvc.Upload(context.Background(), db, client.ID, &loan.ID, "income", file)
	require.NoError(t, err)
	require.NotNil(t, doc.LoanID)
	assert.Equal(t, loan.ID, *doc.LoanID)

	activities, err := loanSvc.GetActivities(db, loan.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityDocumentAdded, activities[0].ActivityType)
	assert.Equal(t, "bulletin.pdf", activities[0].NewValue)
}

func TestUploadRejectsForeignLoan(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newDocumentService(newFakeStorage())
	loanSvc := newLoanService(&recordingEmailProvider{})
	owner := seedUser(t, db, "owner@example.com", models.UserRoleClient)
	other := seedUser(t, db, "other@example.com", models.UserRoleClient)
	loan := seedLoan(t, db, loanSvc, owner.ID)

	file := multipartFile(t, "doc.pdf", []byte("data"))
	_, err := svc.Upload(context.Background(), db, other.ID, &loan.ID, "", file)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestDeleteDocumentRemovesRowAndObject(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	svc := newDocumentService(store)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	file := multipartFile(t, "old.pdf", []byte("stale"))
	doc, err := svc.Upload(context.Background(), db, client.ID, nil, "", file)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), db, doc.ID))

	_, err = svc.GetByID(db, doc.ID)
	assert.Error(t, err)

	exists, err := store.Exists(context.Background(), doc.FilePath)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteSurvivesStorageFailure(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	store := newFakeStorage()
	svc := newDocumentService(store)
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	file := multipartFile(t, "stuck.pdf", []byte("data"))
	doc, err := svc.Upload(context.Background(), db, client.ID, nil, "", file)
	require.NoError(t, err)

	// The metadata row goes away even when the object store misbehaves;
	// the orphan sweeper collects the leftover object later.
	store.failDelete = true
	require.NoError(t, svc.Delete(context.Background(), db, doc.ID))

	_, err = svc.GetByID(db, doc.ID)
	assert.Error(t, err)

	store.failDelete = false
	exists, err := store.Exists(context.Background(), doc.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadReturnsSignedURL(t *testing.T) {
	setTestConfig(t)
	db := newTestDB(t)
	svc := newDocumentService(newFakeStorage())
	client := seedUser(t, db, "client@example.com", models.UserRoleClient)

	file := multipartFile(t, "contrat.pdf", []byte("terms"))
	doc, err := svc.Upload(context.Background(), db, client.ID, nil, "", file)
	require.NoError(t, err)

	got, url, err := svc.Download(context.Background(), db, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "http://test/signed/"+doc.FilePath, url)
}
