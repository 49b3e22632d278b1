package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"unimart/internal/domain"
	"unimart/internal/middleware"
	"unimart/internal/models"
	"unimart/internal/repository"
	"unimart/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Per-image cap; the frontend compresses before upload.
const maxImageBytes = 2 << 20

type ProductHandler struct {
	productRepo *repository.ProductRepository
	cloud       cloudinary.Client
}

func NewProductHandler(productRepo *repository.ProductRepository, cloud cloudinary.Client) *ProductHandler {
	return &ProductHandler{productRepo: productRepo, cloud: cloud}
}

// Create accepts a multipart form: title, price, description, category, mrp,
// available_from (RFC 3339) and one or more "images" files.
func (h *ProductHandler) Create(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	title := strings.TrimSpace(c.PostForm("title"))
	priceStr := c.PostForm("price")
	category := c.PostForm("category")
	if title == "" || priceStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and price are required"})
		return
	}
	price, err := strconv.Atoi(priceStr)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	if !domain.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}
	var mrp *int
	if s := c.PostForm("mrp"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < price {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mrp must be a number not below price"})
			return
		}
		mrp = &v
	}
	var availableFrom *time.Time
	if s := c.PostForm("available_from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid available_from"})
			return
		}
		availableFrom = &t
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}

	folder := "unimart/products/" + strconv.FormatUint(uint64(sellerID), 10)
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image too large (max 2MB)"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
			return
		}
		publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
		url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
		f.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
			return
		}
		urls = append(urls, url)
	}

	p := &models.Product{
		SellerID:      sellerID,
		Title:         title,
		Description:   c.PostForm("description"),
		Price:         price,
		MRP:           mrp,
		Category:      category,
		ImageURLs:     urls,
		Status:        domain.ProductStatusAvailable,
		AvailableFrom: availableFrom,
	}
	if err := h.productRepo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.productRepo.List(c.Query("category"), c.Query("search"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.productRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": p,
		"seller": gin.H{
			"id":         p.Seller.ID,
			"name":       p.Seller.Name,
			"avatar_url": p.Seller.AvatarURL,
		},
	})
}

func (h *ProductHandler) ListMine(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.productRepo.ListBySellerID(sellerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

func (h *ProductHandler) Update(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.productRepo.GetByID(uint(id))
	if err != nil || p.SellerID != sellerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found or not authorized"})
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Price       *int   `json:"price"`
		MRP         *int   `json:"mrp"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != "" {
		p.Title = req.Title
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		p.Price = *req.Price
	}
	if req.MRP != nil {
		p.MRP = req.MRP
	}
	if req.Category != "" {
		if !domain.IsValidCategory(req.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		p.Category = req.Category
	}
	if err := h.productRepo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateStatus toggles a listing between available and sold.
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=available sold pending_reservation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.productRepo.UpdateStatus(uint(id), sellerID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
}

// Delete removes the listing and best-effort cleans up its Cloudinary assets.
func (h *ProductHandler) Delete(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.productRepo.GetByID(uint(id))
	if err != nil || p.SellerID != sellerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found or not authorized"})
		return
	}
	if err := h.productRepo.Delete(uint(id), sellerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	for _, url := range p.ImageURLs {
		if err := h.cloud.DeleteByURL(c.Request.Context(), url); err != nil {
			log.Printf("[Product] image cleanup failed for %s: %v", url, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
