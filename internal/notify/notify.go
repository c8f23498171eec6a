// Package notify runs bulk email sweeps: one message per recipient, sent
// sequentially, where a failed send is counted and never stops the sweep.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/metrics"
)

type Recipient struct {
	Name  string
	Email string
}

type Result struct {
	SentCount  int `json:"sentCount"`
	ErrorCount int `json:"errorCount"`
}

// Compose builds the message for one recipient. An error counts as a failed
// send for that recipient.
type Compose func(ctx context.Context, r Recipient) (mail.Message, error)

type Sweeper struct {
	sender mail.Sender
	logger *slog.Logger
}

func NewSweeper(sender mail.Sender, logger *slog.Logger) *Sweeper {
	return &Sweeper{sender: sender, logger: logger}
}

// Run sends to every recipient with an email address. Recipients without
// one are skipped and not counted.
func (s *Sweeper) Run(ctx context.Context, kind string, recipients []Recipient, compose Compose) Result {
	var res Result
	for _, r := range recipients {
		if strings.TrimSpace(r.Email) == "" {
			continue
		}

		err := s.sendOne(ctx, r, compose)
		metrics.TrackNotification(kind, err)
		if err != nil {
			s.logger.Error("notification failed", "kind", kind, "to", r.Email, "error", err)
			res.ErrorCount++
			continue
		}
		res.SentCount++
	}

	s.logger.Info("notification sweep finished", "kind", kind, "sent", res.SentCount, "failed", res.ErrorCount)
	return res
}

func (s *Sweeper) sendOne(ctx context.Context, r Recipient, compose Compose) error {
	msg, err := compose(ctx, r)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	return s.sender.Send(ctx, msg)
}
