package repository

import (
	"context"

	"tapea/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type VenueRepository interface {
	// List returns venues with their tapas; eventID "" means all events.
	List(ctx context.Context, eventID string) ([]models.Venue, error)
	GetByID(ctx context.Context, id string) (*models.Venue, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

// tapas in venue order: creation time, then id
func orderedTapas(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func (r *venueRepository) List(ctx context.Context, eventID string) ([]models.Venue, error) {
	var venues []models.Venue
	q := r.db.WithContext(ctx).Preload("Tapas", orderedTapas).Order("name ASC")
	if eventID != "" {
		q = q.Where("event_id = ?", eventID)
	}
	if err := q.Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	if err := r.db.WithContext(ctx).Preload("Tapas", orderedTapas).First(&venue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}
