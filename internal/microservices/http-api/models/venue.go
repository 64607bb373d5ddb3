package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Venue is a participating bar. Coordinates are decimal degrees and are what
// the vote geofence is measured against.
type Venue struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	EventID     *string   `gorm:"type:uuid;index" json:"event_id,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Associations
	Event *Event `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:SET NULL;"`
	Tapas []Tapa `json:"tapas,omitempty" gorm:"foreignKey:VenueID"`
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

func (Venue) TableName() string {
	return "venues"
}

// StarTapa is the first tapa in venue order, or nil.
func (v Venue) StarTapa() *Tapa {
	if len(v.Tapas) == 0 {
		return nil
	}
	return &v.Tapas[0]
}
