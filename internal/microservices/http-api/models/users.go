package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a voter. Accounts are created on first Google sign-in, so there is
// no password column; GoogleSubject is the stable provider id.
type User struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName   string     `json:"display_name"`
	GoogleSubject *string    `gorm:"uniqueIndex" json:"-"`
	Role          string     `gorm:"default:'user';not null" json:"role"` // "user" or "admin"
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

func (User) TableName() string {
	return "users"
}
