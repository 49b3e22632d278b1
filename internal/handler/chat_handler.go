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

type ChatHandler struct {
	connSvc  *service.ConnectionService
	connRepo *repository.ConnectionRepository
}

func NewChatHandler(connSvc *service.ConnectionService, connRepo *repository.ConnectionRepository) *ChatHandler {
	return &ChatHandler{connSvc: connSvc, connRepo: connRepo}
}

// ListMessages returns the thread oldest-first. Participants only.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	connectionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || connectionID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection id"})
		return
	}
	conn, err := h.connRepo.GetByID(uint(connectionID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
		return
	}
	if !conn.IsParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you are not part of this conversation"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	msgs, err := h.connRepo.ListMessages(uint(connectionID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs, "status": conn.Status})
}

// SendMessage persists a chat message. The gate inside the service decides
// whether the sender may write given the connection's status and their role.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	senderID := middleware.GetUserID(c)
	var req struct {
		ConnectionID uint   `json:"connection_id" binding:"required"`
		ReceiverID   uint   `json:"receiver_id" binding:"required"`
		Content      string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrMissingFields.Error()})
		return
	}
	msg, err := h.connSvc.SendMessage(req.ConnectionID, senderID, req.ReceiverID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConnectionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotParticipant),
			errors.Is(err, service.ErrAwaitingAcceptance),
			errors.Is(err, service.ErrChatNotAccepted):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send message"})
		}
		return
	}
	c.JSON(http.StatusCreated, msg)
}
