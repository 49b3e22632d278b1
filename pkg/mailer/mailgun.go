// Package mailer forwards user feedback to the team inbox via Mailgun.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailer interface {
	SendFeedback(ctx context.Context, fromName, fromEmail string, rating int, comment string) error
}

type MailgunMailer struct {
	mg   *mailgun.MailgunImpl
	from string
	to   string
}

// NewMailgunMailer returns nil when Mailgun is not configured; a nil mailer
// swallows sends so feedback storage never depends on mail delivery.
func NewMailgunMailer(domain, apiKey, from, to string) *MailgunMailer {
	if domain == "" || apiKey == "" || to == "" {
		return nil
	}
	if from == "" {
		from = "UniMart <noreply@" + domain + ">"
	}
	return &MailgunMailer{mg: mailgun.NewMailgun(domain, apiKey), from: from, to: to}
}

func (m *MailgunMailer) SendFeedback(ctx context.Context, fromName, fromEmail string, rating int, comment string) error {
	if m == nil {
		return nil
	}
	subject := fmt.Sprintf("New feedback (%d/5) from %s", rating, fromName)
	body := fmt.Sprintf("From: %s <%s>\nRating: %d/5\n\n%s", fromName, fromEmail, rating, comment)
	msg := m.mg.NewMessage(m.from, subject, body, m.to)
	msg.SetReplyTo(fromEmail)

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.mg.Send(sendCtx, msg)
	return err
}
