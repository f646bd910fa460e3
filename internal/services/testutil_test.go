package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"aic_backend/database"
	"aic_backend/internal/config"
	"aic_backend/internal/email"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func setTestConfig(t *testing.T) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Database.DSN = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedExtensions = []string{"pdf", "doc", "docx", "jpg", "jpeg", "png"}
	config.AppConfig = cfg
}

// recordingEmailProvider captures outbound mail instead of sending it.
type recordingEmailProvider struct {
	mu       sync.Mutex
	welcomes []string
	statuses []string
	resets   []string
}

func (p *recordingEmailProvider) Send(*email.Email) error { return nil }

func (p *recordingEmailProvider) SendWelcome(to, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.welcomes = append(p.welcomes, to)
	return nil
}

func (p *recordingEmailProvider) SendLoanStatusChanged(to, _, _, _, newStatus string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, to+":"+newStatus)
	return nil
}

func (p *recordingEmailProvider) SendPasswordReset(to, _, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resets = append(p.resets, to)
	return nil
}

// fakeStorage is an in-memory object store for service tests.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	failSave   bool
	failDelete bool
	saves      int
	deletes    int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, path string, reader io.Reader, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failSave {
		return fmt.Errorf("save failed")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *fakeStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.failDelete {
		return fmt.Errorf("delete failed")
	}
	delete(s.objects, path)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *fakeStorage) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var paths []string
	for p := range s.objects {
		if prefix == "" || len(p) >= len(prefix) && p[:len(prefix)] == prefix {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func (s *fakeStorage) GetURL(_ context.Context, path string) (string, error) {
	return "http://test/" + path, nil
}

func (s *fakeStorage) GetSignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://test/signed/" + path, nil
}

func (s *fakeStorage) GetSize(_ context.Context, path string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return 0, fmt.Errorf("not found: %s", path)
	}
	return int64(len(data)), nil
}
