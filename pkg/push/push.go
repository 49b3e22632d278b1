// Package push delivers best-effort push notifications. Delivery failures are the
// caller's to log; nothing here blocks or retries.
package push

import "context"

// Notification is one push to one user. ConnectionID, when set, becomes the deep
// link so the receiving client routes straight to that chat thread.
type Notification struct {
	UserID       uint
	FCMToken     string // used by the FCM provider; OneSignal targets by user tag
	Title        string
	Body         string
	ConnectionID uint
}

type Pusher interface {
	Send(ctx context.Context, n Notification) error
}
