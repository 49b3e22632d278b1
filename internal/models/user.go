package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:120" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	GoogleID     *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for e-mail signups (avoids duplicate '' on unique index)
	University   string         `gorm:"size:120" json:"university"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	FCMToken     string         `gorm:"size:512" json:"-"`
	LastActiveAt *time.Time     `json:"last_active_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// Onboarded reports whether the profile has the fields the app collects at onboarding.
func (u *User) Onboarded() bool {
	return u.Name != "" && u.University != ""
}
