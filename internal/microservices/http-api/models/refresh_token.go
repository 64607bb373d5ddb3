package models

import (
	"time"
)

// RefreshToken is stored hashed. The client holds "<id>.<secret>" and only
// the bcrypt hash of the secret is persisted.
type RefreshToken struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SecretHash string    `gorm:"not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	Revoked    bool      `gorm:"default:false" json:"revoked"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
