package repository

import (
	"unimart/internal/domain"
	"unimart/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.Preload("Seller").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns listings newest-first, optionally filtered by category and a
// title/description search term.
func (r *ProductRepository) List(category, search string, limit, offset int) ([]models.Product, error) {
	var list []models.Product
	q := r.db.Model(&models.Product{}).Order("created_at DESC").Limit(limit).Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *ProductRepository) ListBySellerID(sellerID uint, limit, offset int) ([]models.Product, error) {
	var list []models.Product
	err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

// UpdateStatus sets the listing status, scoped to the seller.
func (r *ProductRepository) UpdateStatus(id, sellerID uint, status string) error {
	return r.db.Model(&models.Product{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Update("status", status).Error
}

// Delete removes the listing, scoped to the seller.
func (r *ProductRepository) Delete(id, sellerID uint) error {
	return r.db.Where("id = ? AND seller_id = ?", id, sellerID).Delete(&models.Product{}).Error
}

func (r *ProductRepository) Count() (int64, error) {
	var c int64
	err := r.db.Model(&models.Product{}).Count(&c).Error
	return c, err
}

func (r *ProductRepository) CountAvailable() (int64, error) {
	var c int64
	err := r.db.Model(&models.Product{}).Where("status = ?", domain.ProductStatusAvailable).Count(&c).Error
	return c, err
}
