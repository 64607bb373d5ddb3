package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tapa struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	VenueID     string    `gorm:"type:uuid;not null;index" json:"venue_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `gorm:"not null;default:0;check:price >= 0" json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Venue *Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

func (t *Tapa) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (Tapa) TableName() string {
	return "tapas"
}
