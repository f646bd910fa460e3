package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"aic_backend/internal/config"
	"aic_backend/internal/logger"
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"
	"aic_backend/internal/storage"
	"aic_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService interface {
	Upload(ctx context.Context, db *gorm.DB, userID string, loanID *string, category string, file *multipart.FileHeader) (*models.Document, error)
	GetByID(db *gorm.DB, id string) (*models.Document, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Document, error)
	ListByLoan(db *gorm.DB, loanID string) ([]models.Document, error)
	Download(ctx context.Context, db *gorm.DB, id string) (*models.Document, string, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type DocumentServiceImpl struct {
	documentRepo repositories.DocumentRepository
	loanRepo     repositories.LoanRepository
	activityRepo repositories.LoanActivityRepository
	store        storage.Storage
}

func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	loanRepo repositories.LoanRepository,
	activityRepo repositories.LoanActivityRepository,
	store storage.Storage,
) DocumentService {
	return &DocumentServiceImpl{
		documentRepo: documentRepo,
		loanRepo:     loanRepo,
		activityRepo: activityRepo,
		store:        store,
	}
}

// Upload validates the file, writes it to the object store and records the
// metadata row. If the row cannot be committed the stored object is removed
// again so the store never holds files the database does not know about.
func (s *DocumentServiceImpl) Upload(ctx context.Context, db *gorm.DB, userID string, loanID *string, category string, file *multipart.FileHeader) (*models.Document, error) {
	if file == nil {
		return nil, apperrors.ErrFileMissing
	}

	cfg := config.GetConfig()
	if file.Size > cfg.Upload.MaxSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{
			"max_size": cfg.Upload.MaxSize,
			"size":     file.Size,
		})
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !extensionAllowed(ext, cfg.Upload.AllowedExtensions) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
			"extension": ext,
			"allowed":   cfg.Upload.AllowedExtensions,
		})
	}

	cat := models.DocumentCategoryOther
	if category != "" {
		parsed, err := models.ParseDocumentCategory(category)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Unknown document category")
		}
		cat = parsed
	}

	if loanID != nil {
		loan, err := s.loanRepo.FindByID(db, *loanID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrLoanNotFound) {
				return nil, apperrors.ErrLoanNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		if loan.UserID != userID {
			return nil, apperrors.ErrForbidden
		}
	}

	path := buildObjectPath(userID, loanID, cat, ext)

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if err := s.store.Save(ctx, path, src, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		url = ""
	}

	doc := &models.Document{
		UserID:     userID,
		LoanID:     loanID,
		FileName:   file.Filename,
		FileType:   ext,
		FileSize:   file.Size,
		FilePath:   path,
		FileURL:    url,
		Category:   cat,
		UploadedAt: time.Now(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.documentRepo.Create(tx, doc); err != nil {
			return apperrors.InternalError(err)
		}
		if loanID != nil {
			activity := &models.LoanActivity{
				LoanID:       *loanID,
				ActivityType: models.ActivityDocumentAdded,
				NewValue:     doc.FileName,
				ActorID:      userID,
			}
			if err := s.activityRepo.Create(tx, activity); err != nil {
				return apperrors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		// Compensate: drop the stored object so it does not leak.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.Error("failed to remove orphaned upload", "path", path, "error", delErr)
		}
		return nil, err
	}

	return doc, nil
}

func (s *DocumentServiceImpl) GetByID(db *gorm.DB, id string) (*models.Document, error) {
	doc, err := s.documentRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return doc, nil
}

func (s *DocumentServiceImpl) ListByUser(db *gorm.DB, userID string) ([]models.Document, error) {
	docs, err := s.documentRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

func (s *DocumentServiceImpl) ListByLoan(db *gorm.DB, loanID string) ([]models.Document, error) {
	docs, err := s.documentRepo.FindByLoan(db, loanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return docs, nil
}

// Download returns the document row plus a short-lived signed URL.
func (s *DocumentServiceImpl) Download(ctx context.Context, db *gorm.DB, id string) (*models.Document, string, error) {
	doc, err := s.GetByID(db, id)
	if err != nil {
		return nil, "", err
	}
	url, err := s.store.GetSignedURL(ctx, doc.FilePath, 15*time.Minute)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return doc, url, nil
}

// Delete removes the metadata row first and only then the stored object.
// A storage failure after the commit leaves an orphan object, which the
// background sweeper picks up.
func (s *DocumentServiceImpl) Delete(ctx context.Context, db *gorm.DB, id string) error {
	doc, err := s.GetByID(db, id)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.documentRepo.Delete(tx, doc.ID); err != nil {
			if apperrors.Is(err, repositories.ErrDocumentNotFound) {
				return apperrors.ErrDocumentNotFound
			}
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		logger.Error("failed to delete stored object", "path", doc.FilePath, "error", err)
	}
	return nil
}

func extensionAllowed(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// buildObjectPath keeps user files grouped: userID/loanID/category/uuid.ext.
func buildObjectPath(userID string, loanID *string, cat models.DocumentCategory, ext string) string {
	loanPart := "general"
	if loanID != nil {
		loanPart = *loanID
	}
	return fmt.Sprintf("%s/%s/%s/%s.%s", userID, loanPart, cat, uuid.NewString(), ext)
}
