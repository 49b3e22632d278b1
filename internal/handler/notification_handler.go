package handler

import (
	"net/http"
	"strconv"

	"unimart/internal/middleware"
	"unimart/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifRepo *repository.NotificationRepository
}

func NewNotificationHandler(notifRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifRepo: notifRepo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.notifRepo.ListByReceiver(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	unread, _ := h.notifRepo.UnreadCount(userID)
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unread_count": unread})
}

// UnreadCounts returns the per-chat unread tallies for the chat list badges.
func (h *NotificationHandler) UnreadCounts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	rows, err := h.notifRepo.UnreadCountsByConnection(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": rows})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.notifRepo.MarkAllRead(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkChatRead clears the unread rows for one connection when its chat is opened.
func (h *NotificationHandler) MarkChatRead(c *gin.Context) {
	userID := middleware.GetUserID(c)
	connectionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || connectionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return
	}
	if err := h.notifRepo.MarkChatRead(userID, uint(connectionID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
