package push

import (
	"context"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMPusher sends via Firebase Cloud Messaging to the device token stored on the
// user row.
type FCMPusher struct {
	client *messaging.Client
}

// NewFCMPusher creates an FCM pusher. Returns nil if Firebase is not configured,
// and a nil pusher swallows sends.
func NewFCMPusher(serviceAccountPath string) *FCMPusher {
	if serviceAccountPath == "" {
		return nil
	}
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		log.Printf("[FCM] failed to init Firebase app: %v", err)
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Printf("[FCM] failed to get messaging client: %v", err)
		return nil
	}
	return &FCMPusher{client: client}
}

func (p *FCMPusher) Send(ctx context.Context, n Notification) error {
	if p == nil || n.FCMToken == "" {
		return nil
	}
	data := map[string]string{}
	if n.ConnectionID != 0 {
		data["connection_id"] = strconv.FormatUint(uint64(n.ConnectionID), 10)
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data:  data,
		Token: n.FCMToken,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
	_, err := p.client.Send(ctx, msg)
	return err
}
