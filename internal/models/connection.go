package models

import (
	"time"
)

// Connection records a buyer's interest in one product and gates the chat about it.
// Declining deletes the row outright, so there is deliberately no soft-delete column:
// a surviving unique-index entry would block the buyer from ever re-requesting.
type Connection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `gorm:"not null;index:idx_conn_product_requester,unique" json:"product_id"`
	RequesterID uint      `gorm:"not null;index:idx_conn_product_requester,unique" json:"requester_id"`
	SellerID    uint      `gorm:"not null;index" json:"seller_id"`
	Status      string    `gorm:"size:20;not null;index;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	Product   Product `gorm:"foreignKey:ProductID" json:"-"`
	Requester User    `gorm:"foreignKey:RequesterID" json:"-"`
	Seller    User    `gorm:"foreignKey:SellerID" json:"-"`
}

func (Connection) TableName() string {
	return "connections"
}

func (c *Connection) IsParticipant(userID uint) bool {
	return userID == c.RequesterID || userID == c.SellerID
}

// Message is one chat line in a connection's thread. Immutable once created.
type Message struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ConnectionID uint      `gorm:"not null;index" json:"connection_id"`
	SenderID     uint      `gorm:"not null;index" json:"sender_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `json:"created_at"`

	Connection Connection `gorm:"foreignKey:ConnectionID" json:"-"`
	Sender     User       `gorm:"foreignKey:SenderID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
