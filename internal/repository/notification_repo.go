package repository

import (
	"unimart/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) ListByReceiver(receiverID uint, limit, offset int) ([]models.Notification, error) {
	var list []models.Notification
	err := r.db.Where("receiver_id = ?", receiverID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *NotificationRepository) UnreadCount(receiverID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&c).Error
	return c, err
}

// UnreadCountRow is one per-chat unread tally for the badge on the chat list.
type UnreadCountRow struct {
	ConnectionID uint  `json:"connection_id"`
	Count        int64 `json:"count"`
}

func (r *NotificationRepository) UnreadCountsByConnection(receiverID uint) ([]UnreadCountRow, error) {
	var rows []UnreadCountRow
	err := r.db.Model(&models.Notification{}).
		Select("connection_id, COUNT(*) as count").
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Group("connection_id").
		Scan(&rows).Error
	return rows, err
}

func (r *NotificationRepository) MarkAllRead(receiverID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Update("is_read", true).Error
}

// MarkChatRead clears unread rows for one connection, used when the receiver opens
// that chat.
func (r *NotificationRepository) MarkChatRead(receiverID, connectionID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("receiver_id = ? AND connection_id = ? AND is_read = ?", receiverID, connectionID, false).
		Update("is_read", true).Error
}
