package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int            `gorm:"not null" json:"price"`
	MRP           *int           `json:"mrp"`
	Category      string         `gorm:"size:64;index" json:"category"`
	ImageURLs     []string       `gorm:"serializer:json;type:text" json:"image_urls"`
	Status        string         `gorm:"size:32;not null;index;default:available" json:"status"`
	AvailableFrom *time.Time     `json:"available_from"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Seller User `gorm:"foreignKey:SellerID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
