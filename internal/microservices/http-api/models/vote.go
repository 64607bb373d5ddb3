package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is one user's rating of one tapa. The composite unique index is the
// binding one-vote-per-(user, tapa) rule.
type Vote struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID            string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_tapa"`
	TapaID            string    `json:"tapa_id" gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_tapa;index"`
	Stars             int       `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	ValidatedLocation bool      `json:"validated_location" gorm:"not null;default:false"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime;index"`

	// Associations
	User User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Tapa *Tapa `json:"tapa,omitempty" gorm:"foreignKey:TapaID;constraint:OnDelete:CASCADE;"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

func (Vote) TableName() string {
	return "votes"
}
