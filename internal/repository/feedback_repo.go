package repository

import (
	"unimart/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(f *models.Feedback) error {
	return r.db.Create(f).Error
}

func (r *FeedbackRepository) List(limit, offset int) ([]models.Feedback, error) {
	var list []models.Feedback
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
