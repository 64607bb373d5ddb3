package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tapea/internal/event"
)

// Event is one tapas route.
type Event struct {
	ID             string            `gorm:"primaryKey;type:uuid" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	Slug           string            `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Description    string            `json:"description,omitempty"`
	ActiveDates    event.ActiveDates `gorm:"type:jsonb" json:"active_dates"`
	PrimaryColor   string            `json:"primary_color,omitempty"`
	SecondaryColor string            `json:"secondary_color,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return event.CheckSlug(e.Slug)
}

func (Event) TableName() string {
	return "events"
}

// ToDomain drops persistence-only fields.
func (e Event) ToDomain() event.Event {
	return event.Event{
		ID:          e.ID,
		Name:        e.Name,
		Slug:        e.Slug,
		ActiveDates: e.ActiveDates,
		CreatedAt:   e.CreatedAt,
	}
}
