package handler

import (
	"errors"
	"net/http"
	"strconv"

	"unimart/internal/middleware"
	"unimart/internal/repository"
	"unimart/internal/service"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connSvc  *service.ConnectionService
	connRepo *repository.ConnectionRepository
}

func NewConnectionHandler(connSvc *service.ConnectionService, connRepo *repository.ConnectionRepository) *ConnectionHandler {
	return &ConnectionHandler{connSvc: connSvc, connRepo: connRepo}
}

// Create starts a pending connection for a product on behalf of the caller.
func (h *ConnectionHandler) Create(c *gin.Context) {
	requesterID := middleware.GetUserID(c)
	var req struct {
		ProductID uint `json:"product_id" binding:"required"`
		SellerID  uint `json:"seller_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and seller_id are required"})
		return
	}
	res, err := h.connSvc.CreateConnection(req.ProductID, req.SellerID, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfConnection):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not send request"})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ConnectionHandler) Accept(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return
	}
	res, err := h.connSvc.AcceptConnection(uint(id), sellerID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not accept request"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ConnectionHandler) Decline(c *gin.Context) {
	sellerID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return
	}
	c.JSON(http.StatusOK, h.connSvc.DeclineConnection(uint(id), sellerID))
}

// ListMine returns the caller's connections from both sides, with just enough
// product and counterpart detail to render the chat list.
func (h *ConnectionHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.connRepo.ListForUser(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, conn := range list {
		other := conn.Requester
		if conn.RequesterID == userID {
			other = conn.Seller
		}
		entry := gin.H{
			"id":           conn.ID,
			"product_id":   conn.ProductID,
			"requester_id": conn.RequesterID,
			"seller_id":    conn.SellerID,
			"status":       conn.Status,
			"created_at":   conn.CreatedAt,
			"product": gin.H{
				"title":      conn.Product.Title,
				"price":      conn.Product.Price,
				"image_urls": conn.Product.ImageURLs,
				"status":     conn.Product.Status,
			},
			"other_user": gin.H{
				"id":         other.ID,
				"name":       other.Name,
				"avatar_url": other.AvatarURL,
			},
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"connections": out})
}
