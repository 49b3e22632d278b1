package ws

import (
	"encoding/json"
	"sync"
)

// ChatRoom is one room per connection (requester + seller).
type ChatRoom struct {
	ConnectionID uint
	RequesterID  uint
	SellerID     uint
	clients      map[*Client]struct{}
	mu           sync.RWMutex
}

func NewChatRoom(connectionID, requesterID, sellerID uint) *ChatRoom {
	return &ChatRoom{
		ConnectionID: connectionID,
		RequesterID:  requesterID,
		SellerID:     sellerID,
		clients:      make(map[*Client]struct{}),
	}
}

func (r *ChatRoom) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *ChatRoom) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
}

func (r *ChatRoom) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Broadcast sends the payload to every client in the room except from.
// Pass from == nil to reach everyone, e.g. for server-originated frames.
func (r *ChatRoom) Broadcast(from *Client, payload interface{}) {
	data, _ := json.Marshal(payload)
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		if c != from {
			clients = append(clients, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ChatHub holds all chat rooms by connection ID.
type ChatHub struct {
	mu    sync.RWMutex
	rooms map[uint]*ChatRoom
}

func NewChatHub() *ChatHub {
	return &ChatHub{rooms: make(map[uint]*ChatRoom)}
}

func (h *ChatHub) GetOrCreateRoom(connectionID, requesterID, sellerID uint) *ChatRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[connectionID]; ok {
		return r
	}
	r := NewChatRoom(connectionID, requesterID, sellerID)
	h.rooms[connectionID] = r
	return r
}

func (h *ChatHub) GetRoom(connectionID uint) *ChatRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[connectionID]
}

func (h *ChatHub) RemoveRoom(connectionID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, connectionID)
}
