package repository

import (
	"unimart/internal/models"

	"gorm.io/gorm"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) Create(conn *models.Connection) error {
	return r.db.Create(conn).Error
}

func (r *ConnectionRepository) GetByID(id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := r.db.First(&conn, id).Error; err != nil {
		return nil, err
	}
	return &conn, nil
}

// GetForSeller fetches a connection with the seller folded into the predicate.
// A caller who is not the seller gets ErrRecordNotFound, never a distinct
// "forbidden", so the existence of other users' connections does not leak.
func (r *ConnectionRepository) GetForSeller(id, sellerID uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.Preload("Product").
		Where("id = ? AND seller_id = ?", id, sellerID).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

func (r *ConnectionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.Connection{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteForSeller hard-deletes the row, scoped to the seller. Declines leave no trace.
func (r *ConnectionRepository) DeleteForSeller(id, sellerID uint) error {
	return r.db.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Connection{}).Error
}

// ListForUser returns every connection the user participates in, newest-first.
func (r *ConnectionRepository) ListForUser(userID uint, limit, offset int) ([]models.Connection, error) {
	var list []models.Connection
	err := r.db.Where("requester_id = ? OR seller_id = ?", userID, userID).
		Preload("Product").Preload("Requester").Preload("Seller").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *ConnectionRepository) Count() (int64, error) {
	var c int64
	err := r.db.Model(&models.Connection{}).Count(&c).Error
	return c, err
}

// Messages

func (r *ConnectionRepository) CreateMessage(m *models.Message) error {
	return r.db.Create(m).Error
}

// HasMessage reports whether an identical message from the sender already exists on
// the connection. Guards the courtesy message against double insertion when accept
// is triggered through more than one path.
func (r *ConnectionRepository) HasMessage(connectionID, senderID uint, content string) (bool, error) {
	var c int64
	err := r.db.Model(&models.Message{}).
		Where("connection_id = ? AND sender_id = ? AND content = ?", connectionID, senderID, content).
		Count(&c).Error
	return c > 0, err
}

func (r *ConnectionRepository) ListMessages(connectionID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("connection_id = ?", connectionID).
		Order("created_at ASC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
