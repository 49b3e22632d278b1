package handler

import (
	"fmt"
	"net/http"
	"time"

	"unimart/config"
	"unimart/internal/auth"
	"unimart/internal/repository"
	"unimart/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	chatWriteWait  = 10 * time.Second
	chatPongWait   = 60 * time.Second
	chatPingPeriod = (chatPongWait * 9) / 10
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeChatWS upgrades to WebSocket for a chat thread; query: token,
// connection_id. The socket is a delivery feed only: messages are written over
// HTTP so every send passes the gate, and the bus observer fans frames out here.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.ChatHub, connRepo *repository.ConnectionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		connectionIDStr := c.Query("connection_id")
		if token == "" || connectionIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and connection_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var connectionID uint
		if _, err := fmt.Sscanf(connectionIDStr, "%d", &connectionID); err != nil || connectionID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection_id"})
			return
		}
		connRow, err := connRepo.GetByID(connectionID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
			return
		}
		if !connRow.IsParticipant(claims.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you are not part of this conversation"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(connectionID, connRow.RequesterID, connRow.SellerID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()

		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

// UpgradeNotificationsWS upgrades to WebSocket for the per-user notification
// feed; query: token. Connection and message events land here so the badge and
// chat list update without polling.
func UpgradeNotificationsWS(cfg *config.JWTConfig, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()

		conn.SetReadDeadline(time.Now().Add(chatPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(chatPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(chatPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
