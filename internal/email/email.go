// Package email delivers the contact form through a transactional email
// service.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ContactMessage is one submission of the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Sender is the delivery boundary; tests swap in a mock.
type Sender interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

// ResendSender delivers via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	to     string
}

func NewResendSender(apiKey, from, to string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (s *ResendSender) SendContact(ctx context.Context, msg ContactMessage) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: fmt.Sprintf("Contact Form Submission from %s", msg.Name),
		ReplyTo: msg.Email,
		Text:    fmt.Sprintf("Name: %s\nEmail: %s\nMessage:\n%s", msg.Name, msg.Email, msg.Message),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}
