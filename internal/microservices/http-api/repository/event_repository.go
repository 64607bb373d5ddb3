package repository

import (
	"context"

	"tapea/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type EventRepository interface {
	// List returns events newest first.
	List(ctx context.Context) ([]models.Event, error)
	GetBySlug(ctx context.Context, slug string) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
