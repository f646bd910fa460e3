package workers

import (
	"context"
	"time"

	"aic_backend/internal/logger"
	"aic_backend/internal/repositories"

	"gorm.io/gorm"
)

const tokenCleanInterval = 6 * time.Hour

// TokenJanitor deletes expired refresh tokens. Logins only delete the one
// token they replace, so abandoned sessions accumulate rows until swept.
type TokenJanitor struct {
	db        *gorm.DB
	tokenRepo repositories.RefreshTokenRepository
	interval  time.Duration
}

func NewTokenJanitor(db *gorm.DB, tokenRepo repositories.RefreshTokenRepository) *TokenJanitor {
	return &TokenJanitor{
		db:        db,
		tokenRepo: tokenRepo,
		interval:  tokenCleanInterval,
	}
}

// Run cleans on a fixed interval until the context is cancelled.
func (j *TokenJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	logger.Info("Token janitor started", "interval", j.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Token janitor stopped")
			return
		case <-ticker.C:
			if err := j.Clean(); err != nil {
				logger.Error("Token cleanup failed", "error", err)
			}
		}
	}
}

// Clean removes every refresh token past its expiry.
func (j *TokenJanitor) Clean() error {
	return j.tokenRepo.CleanExpired(j.db)
}
