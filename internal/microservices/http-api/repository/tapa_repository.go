package repository

import (
	"context"

	"tapea/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type TapaRepository interface {
	// GetByID loads the tapa with its venue (needed for the geofence).
	GetByID(ctx context.Context, id string) (*models.Tapa, error)
}

type tapaRepository struct {
	db *gorm.DB
}

func NewTapaRepository(db *gorm.DB) TapaRepository {
	return &tapaRepository{db: db}
}

func (r *tapaRepository) GetByID(ctx context.Context, id string) (*models.Tapa, error) {
	var tapa models.Tapa
	if err := r.db.WithContext(ctx).Preload("Venue").First(&tapa, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tapa, nil
}
