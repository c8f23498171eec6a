package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/report"
	"github.com/Manish1808/Cybernauts/internal/store"
)

// Notices sends free-text notices to an event's participants or to the
// students of selected branches in the roster spreadsheet.
type Notices struct {
	store       store.Events
	sweeper     *notify.Sweeper
	catalog     *mail.Catalog
	announceDir string
	organizer   string
	logger      *slog.Logger
}

func NewNotices(st store.Events, sweeper *notify.Sweeper, catalog *mail.Catalog, announceDir, defaultOrganizer string, logger *slog.Logger) *Notices {
	return &Notices{
		store:       st,
		sweeper:     sweeper,
		catalog:     catalog,
		announceDir: announceDir,
		organizer:   defaultOrganizer,
		logger:      logger,
	}
}

func (s *Notices) Notify(ctx context.Context, eventID, notice string) (notify.Result, error) {
	if strings.TrimSpace(notice) == "" {
		return notify.Result{}, apperr.InvalidInput("Notice is required")
	}
	e, err := eventWithParticipants(ctx, s.store, eventID)
	if err != nil {
		return notify.Result{}, err
	}

	organizer := organizerOf(*e, s.organizer)
	return s.sweeper.Run(ctx, mail.KindEventUpdate, recipientsOf(e.Participants),
		func(ctx context.Context, r notify.Recipient) (mail.Message, error) {
			return s.catalog.Compose(mail.KindEventUpdate, r.Email, map[string]any{
				"Name":      r.Name,
				"Event":     e.Title,
				"Notice":    notice,
				"Organizer": organizer,
			})
		}), nil
}

// Announce mails notice to every roster entry whose branch is one of
// branches.
func (s *Notices) Announce(ctx context.Context, notice string, branches []string) (notify.Result, error) {
	if strings.TrimSpace(notice) == "" || len(branches) == 0 {
		return notify.Result{}, apperr.InvalidInput("Notice and at least one branch are required")
	}

	path, err := report.FindRoster(s.announceDir)
	if err != nil {
		return notify.Result{}, err
	}
	entries, err := report.ReadRoster(path)
	if err != nil {
		return notify.Result{}, err
	}
	selected := report.FilterByBranch(entries, branches)
	if len(selected) == 0 {
		return notify.Result{}, apperr.NotFound("No emails found for the selected branches")
	}

	recipients := make([]notify.Recipient, 0, len(selected))
	for _, e := range selected {
		recipients = append(recipients, notify.Recipient{Name: e.Name, Email: e.Email})
	}
	s.logger.Info("announcement started", "branches", branches, "recipients", len(recipients))

	return s.sweeper.Run(ctx, mail.KindAnnouncement, recipients,
		func(ctx context.Context, r notify.Recipient) (mail.Message, error) {
			return s.catalog.Compose(mail.KindAnnouncement, r.Email, map[string]any{
				"Name":   r.Name,
				"Notice": notice,
			})
		}), nil
}
