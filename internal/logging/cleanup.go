package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"gorm.io/gorm"
)

// LogRetention is how long system_logs rows are kept.
const LogRetention = 30 * 24 * time.Hour

// Cleaner prunes old system logs and dead refresh tokens. A nil db skips the
// log table, which is the case for the in-memory store.
type Cleaner struct {
	db     *gorm.DB
	tokens repository.RefreshTokenStore
	now    func() time.Time
}

func NewCleaner(db *gorm.DB, tokens repository.RefreshTokenStore) *Cleaner {
	return &Cleaner{db: db, tokens: tokens, now: time.Now}
}

func (c *Cleaner) RunOnce(ctx context.Context) {
	now := c.now()
	if c.db != nil {
		result := c.db.WithContext(ctx).Where("timestamp < ?", now.Add(-LogRetention)).Delete(&models.SystemLog{})
		if result.Error != nil {
			slog.Error("log cleanup failed", "operation", "log_cleanup", "error", result.Error)
		} else if result.RowsAffected > 0 {
			slog.Info("log cleanup completed", "deleted", result.RowsAffected)
		}
	}
	if c.tokens != nil {
		n, err := c.tokens.DeleteExpired(ctx, now)
		if err != nil {
			slog.Error("refresh token cleanup failed", "operation", "token_cleanup", "error", err)
		} else if n > 0 {
			slog.Info("refresh token cleanup completed", "deleted", n)
		}
	}
}

// Start runs RunOnce daily until done is closed.
func (c *Cleaner) Start(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.RunOnce(context.Background())
			case <-done:
				return
			}
		}
	}()
}
