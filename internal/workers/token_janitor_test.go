package workers

import (
	"testing"
	"time"

	"aic_backend/internal/models"
	"aic_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesOnlyExpiredTokens(t *testing.T) {
	db := newSweeperTestDB(t)
	userID := uuid.NewString()

	expired := &models.RefreshToken{
		UserID:    userID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := &models.RefreshToken{
		UserID:    userID,
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(expired).Error)
	require.NoError(t, db.Create(live).Error)

	janitor := NewTokenJanitor(db, repositories.NewRefreshTokenRepository())
	require.NoError(t, janitor.Clean())

	var remaining []models.RefreshToken
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live-token", remaining[0].Token)
}

func TestCleanOnEmptyTableIsNoop(t *testing.T) {
	db := newSweeperTestDB(t)
	janitor := NewTokenJanitor(db, repositories.NewRefreshTokenRepository())
	require.NoError(t, janitor.Clean())
}
