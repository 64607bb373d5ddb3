package repository

import (
	"context"

	"tapea/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RefreshTokenRepository handles database operations for refresh tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, refreshToken *models.RefreshToken) error
	FindByID(ctx context.Context, id string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenID string) error
	Delete(ctx context.Context, tokenID string) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, refreshToken *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(refreshToken).Error
}

// FindByID looks up the token row; the caller verifies the secret hash.
func (r *refreshTokenRepository) FindByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&refreshToken).Error; err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

// Revoke: marks a refresh token as revoked
func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).Where("id = ?", tokenID).Update("revoked", true).Error
}

// Delete: removes an expired refresh token
func (r *refreshTokenRepository) Delete(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).Where("id = ?", tokenID).Delete(&models.RefreshToken{}).Error
}
