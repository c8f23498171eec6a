// Package mail composes and delivers the notification emails.
package mail

import (
	"context"
	"log/slog"
)

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers one message. Implementations must be safe for sequential
// reuse across a sweep.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs what would have been sent. It is used when no SMTP
// host is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	s.Logger.Info("mail not configured, skipping delivery",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}
