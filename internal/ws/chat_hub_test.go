package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drain(c *Client) []map[string]interface{} {
	var out []map[string]interface{}
	for {
		select {
		case raw := <-c.Send:
			var m map[string]interface{}
			_ = json.Unmarshal(raw, &m)
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestChatRoomBroadcastExcludesSender(t *testing.T) {
	room := NewChatRoom(7, 3, 2)
	requester := &Client{UserID: 3, Send: make(chan []byte, 8)}
	seller := &Client{UserID: 2, Send: make(chan []byte, 8)}
	room.Join(requester)
	room.Join(seller)

	room.Broadcast(requester, map[string]interface{}{"type": "message", "content": "hi"})

	assert.Empty(t, drain(requester))
	got := drain(seller)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "message", got[0]["type"])
		assert.Equal(t, "hi", got[0]["content"])
	}
}

func TestChatRoomBroadcastNilFromReachesEveryone(t *testing.T) {
	room := NewChatRoom(7, 3, 2)
	a := &Client{UserID: 3, Send: make(chan []byte, 8)}
	b := &Client{UserID: 2, Send: make(chan []byte, 8)}
	room.Join(a)
	room.Join(b)

	room.Broadcast(nil, map[string]interface{}{"type": "message"})
	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestChatHubRooms(t *testing.T) {
	hub := NewChatHub()
	r1 := hub.GetOrCreateRoom(7, 3, 2)
	r2 := hub.GetOrCreateRoom(7, 3, 2)
	assert.Same(t, r1, r2)

	assert.Nil(t, hub.GetRoom(8))
	hub.RemoveRoom(7)
	assert.Nil(t, hub.GetRoom(7))
}

func TestHubBroadcastToUser(t *testing.T) {
	hub := NewHub()
	// Same user on two devices, plus an unrelated user.
	phone := &Client{UserID: 3, Send: make(chan []byte, 8)}
	laptop := &Client{UserID: 3, Send: make(chan []byte, 8)}
	other := &Client{UserID: 9, Send: make(chan []byte, 8)}
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)
	assert.Equal(t, 3, hub.ClientCount())

	hub.BroadcastToUser(3, map[string]interface{}{"type": "notification"})
	assert.Len(t, drain(phone), 1)
	assert.Len(t, drain(laptop), 1)
	assert.Empty(t, drain(other))

	phone.Close()
	assert.Equal(t, 2, hub.ClientCount())
	// Closing twice is safe.
	phone.Close()
}
