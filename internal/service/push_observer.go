package service

import (
	"context"
	"fmt"
	"time"

	"unimart/internal/event"
	"unimart/internal/models"
	"unimart/pkg/push"
)

type UserGetter interface {
	GetByID(id uint) (*models.User, error)
}

// PushObserver turns connection events into push notifications. It runs on the
// event bus, off the request path: the state transition that produced the event has
// already committed, and a failed push changes nothing.
type PushObserver struct {
	users  UserGetter
	pusher push.Pusher
}

func NewPushObserver(users UserGetter, pusher push.Pusher) *PushObserver {
	return &PushObserver{users: users, pusher: pusher}
}

func (o *PushObserver) Name() string { return "push" }

func (o *PushObserver) Update(e event.Event) error {
	if o.pusher == nil || e.ReceiverID == 0 {
		return nil
	}
	var title, body string
	switch e.Type {
	case event.TypeConnectionRequested:
		title = "New Message"
		body = e.Body
	case event.TypeConnectionAccepted:
		title = "Seller Accepted Your Request!"
		body = fmt.Sprintf("Seller accepted your request for '%s'. You can now chat and fix a deal!", e.Body)
	case event.TypeMessageCreated:
		title = "New Message"
		body = fmt.Sprintf("You have a new message: %q", e.Body)
	default:
		return nil
	}

	receiver, err := o.users.GetByID(e.ReceiverID)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return o.pusher.Send(ctx, push.Notification{
		UserID:       receiver.ID,
		FCMToken:     receiver.FCMToken,
		Title:        title,
		Body:         body,
		ConnectionID: e.ConnectionID,
	})
}
