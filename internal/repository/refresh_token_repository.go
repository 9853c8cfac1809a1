package repository

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"gorm.io/gorm"
)

type RefreshTokenRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ RefreshTokenStore = (*RefreshTokenRepository)(nil)

func NewRefreshTokenRepository(db *gorm.DB, timeout time.Duration) *RefreshTokenRepository {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RefreshTokenRepository{db: db, timeout: timeout}
}

func (r *RefreshTokenRepository) call(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return run(ctx, r.db, r.timeout, "refresh_token", op, fn)
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.call(ctx, "create", func(db *gorm.DB) error {
		return db.Create(token).Error
	})
}

func (r *RefreshTokenRepository) FindActive(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.call(ctx, "find_active", func(db *gorm.DB) error {
		return db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error
	}); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	return r.call(ctx, "revoke", func(db *gorm.DB) error {
		return db.Model(&models.RefreshToken{}).Where("id = ?", id).Update("revoked", true).Error
	})
}

func (r *RefreshTokenRepository) RevokeByHash(ctx context.Context, tokenHash string) error {
	return r.call(ctx, "revoke_by_hash", func(db *gorm.DB) error {
		return db.Model(&models.RefreshToken{}).Where("token_hash = ?", tokenHash).Update("revoked", true).Error
	})
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	err := r.call(ctx, "delete_expired", func(db *gorm.DB) error {
		res := db.Where("expires_at < ? OR revoked = true", before).Delete(&models.RefreshToken{})
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

// NewStores builds the GORM-backed store set.
func NewStores(db *gorm.DB, timeout time.Duration) Stores {
	return Stores{
		Users:         NewUserRepository(db, timeout),
		Clients:       NewClientRepository(db, timeout),
		Boats:         NewBoatRepository(db, timeout),
		RefreshTokens: NewRefreshTokenRepository(db, timeout),
	}
}
