package models

import (
	"time"
)

// Notification backs the in-app unread badge. Rows are written alongside message
// and acceptance events whether or not the corresponding push was delivered.
type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MessageID    *uint     `gorm:"index" json:"message_id"`
	ReceiverID   uint      `gorm:"not null;index" json:"receiver_id"`
	ConnectionID uint      `gorm:"not null;index" json:"connection_id"`
	Type         string    `gorm:"size:50;index" json:"type"`
	IsRead       bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`

	Receiver User     `gorm:"foreignKey:ReceiverID" json:"-"`
	Message  *Message `gorm:"foreignKey:MessageID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
