package workers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"aic_backend/database"
	"aic_backend/internal/models"
	"aic_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type memStorage struct {
	objects map[string][]byte
}

func (s *memStorage) Save(_ context.Context, path string, reader io.Reader, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *memStorage) Get(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(_ context.Context, path string) error {
	delete(s.objects, path)
	return nil
}

func (s *memStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.objects[path]
	return ok, nil
}

func (s *memStorage) List(_ context.Context, _ string) ([]string, error) {
	var paths []string
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths, nil
}

func (s *memStorage) GetURL(_ context.Context, path string) (string, error) { return path, nil }

func (s *memStorage) GetSignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return path, nil
}

func (s *memStorage) GetSize(_ context.Context, path string) (int64, error) {
	return int64(len(s.objects[path])), nil
}

func newSweeperTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestSweepRemovesUnreferencedObjects(t *testing.T) {
	db := newSweeperTestDB(t)
	store := &memStorage{objects: map[string][]byte{
		"u1/general/other/kept.pdf":   []byte("referenced"),
		"u1/general/other/orphan.pdf": []byte("forgotten"),
	}}

	require.NoError(t, db.Create(&models.Document{
		UserID:   uuid.NewString(),
		FileName: "kept.pdf",
		FilePath: "u1/general/other/kept.pdf",
	}).Error)

	sweeper := NewOrphanSweeper(db, store, repositories.NewDocumentRepository())
	// started is zero here, so the grace window does not apply.
	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, kept := store.objects["u1/general/other/kept.pdf"]
	assert.True(t, kept)
	_, orphan := store.objects["u1/general/other/orphan.pdf"]
	assert.False(t, orphan)
}

func TestSweepNothingToDo(t *testing.T) {
	db := newSweeperTestDB(t)
	store := &memStorage{objects: map[string][]byte{}}

	sweeper := NewOrphanSweeper(db, store, repositories.NewDocumentRepository())
	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweepWithinGracePeriodSkips(t *testing.T) {
	db := newSweeperTestDB(t)
	store := &memStorage{objects: map[string][]byte{
		"fresh/upload.pdf": []byte("in flight"),
	}}

	sweeper := NewOrphanSweeper(db, store, repositories.NewDocumentRepository())
	sweeper.started = time.Now()

	removed, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	_, stillThere := store.objects["fresh/upload.pdf"]
	assert.True(t, stillThere)
}
