package ws

import (
	"unimart/internal/event"
)

// EventObserver relays bus events to connected sockets: chat frames into the
// room for the connection, everything else to the receiver's notification feed.
type EventObserver struct {
	chatHub *ChatHub
	hub     *Hub
}

func NewEventObserver(chatHub *ChatHub, hub *Hub) *EventObserver {
	return &EventObserver{chatHub: chatHub, hub: hub}
}

func (o *EventObserver) Name() string { return "ws" }

func (o *EventObserver) Update(e event.Event) error {
	switch e.Type {
	case event.TypeMessageCreated:
		if room := o.chatHub.GetRoom(e.ConnectionID); room != nil {
			room.Broadcast(nil, map[string]interface{}{
				"type":          "message",
				"id":            e.MessageID,
				"connection_id": e.ConnectionID,
				"sender_id":     e.ActorID,
				"content":       e.Body,
				"created_at":    e.CreatedAt,
			})
		}
		o.hub.BroadcastToUser(e.ReceiverID, map[string]interface{}{
			"type":          "notification",
			"event":         e.Type,
			"connection_id": e.ConnectionID,
		})
	case event.TypeConnectionRequested, event.TypeConnectionAccepted:
		o.hub.BroadcastToUser(e.ReceiverID, map[string]interface{}{
			"type":          "notification",
			"event":         e.Type,
			"connection_id": e.ConnectionID,
			"product_id":    e.ProductID,
		})
	case event.TypeConnectionDeclined:
		// The connection row is gone; drop the room so stale sockets detach.
		o.chatHub.RemoveRoom(e.ConnectionID)
		o.hub.BroadcastToUser(e.ReceiverID, map[string]interface{}{
			"type":          "notification",
			"event":         e.Type,
			"product_id":    e.ProductID,
		})
	}
	return nil
}
