package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/metrics"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/store"
)

type FeedbackInput struct {
	Email   string
	Rating  *float64
	Comment string
}

type Feedback struct {
	store       store.Events
	sweeper     *notify.Sweeper
	catalog     *mail.Catalog
	frontendURL string
	organizer   string
	logger      *slog.Logger
	Now         func() time.Time
}

func NewFeedback(st store.Events, sweeper *notify.Sweeper, catalog *mail.Catalog, frontendURL, defaultOrganizer string, logger *slog.Logger) *Feedback {
	return &Feedback{
		store:       st,
		sweeper:     sweeper,
		catalog:     catalog,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		organizer:   defaultOrganizer,
		logger:      logger,
		Now:         time.Now,
	}
}

// Submit records one participant's feedback and refreshes the average
// rating. Checks run in order: event, membership, duplicate, rating range.
func (s *Feedback) Submit(ctx context.Context, eventID string, in FeedbackInput) error {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Rating == nil {
		return apperr.InvalidInput("Email and rating are required")
	}

	err := s.submit(ctx, eventID, domain.Feedback{
		Email:       email,
		Rating:      *in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
		SubmittedAt: s.Now().UTC(),
	})
	metrics.TrackFeedback(err)
	return err
}

func (s *Feedback) submit(ctx context.Context, eventID string, f domain.Feedback) error {
	e, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !e.IsParticipant(f.Email) {
		return domain.ErrNotParticipant
	}
	if e.HasFeedbackFrom(f.Email) {
		return domain.ErrFeedbackSubmitted
	}
	if !domain.ValidRating(f.Rating) {
		return domain.ErrRatingOutOfRange
	}

	// the store repeats the membership and duplicate checks atomically
	if err := s.store.AddFeedback(ctx, eventID, f); err != nil {
		return err
	}
	s.logger.Info("feedback submitted", "event_id", eventID, "email", f.Email)
	return nil
}

// RequestFeedback mails every participant a link to the feedback form.
func (s *Feedback) RequestFeedback(ctx context.Context, eventID string) (notify.Result, error) {
	e, err := eventWithParticipants(ctx, s.store, eventID)
	if err != nil {
		return notify.Result{}, err
	}

	link := s.frontendURL + "/events/" + e.ID + "/feedback"
	organizer := organizerOf(*e, s.organizer)
	return s.sweeper.Run(ctx, mail.KindFeedbackRequest, recipientsOf(e.Participants),
		func(ctx context.Context, r notify.Recipient) (mail.Message, error) {
			return s.catalog.Compose(mail.KindFeedbackRequest, r.Email, map[string]any{
				"Name":      r.Name,
				"Event":     e.Title,
				"Link":      link,
				"Organizer": organizer,
			})
		}), nil
}

func eventWithParticipants(ctx context.Context, st store.Events, eventID string) (*domain.Event, error) {
	e, err := st.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(e.Participants) == 0 {
		return nil, apperr.InvalidInput("No participants found for this event")
	}
	return e, nil
}

func recipientsOf(participants []domain.Participant) []notify.Recipient {
	out := make([]notify.Recipient, 0, len(participants))
	for _, p := range participants {
		out = append(out, notify.Recipient{Name: p.Name, Email: p.Email})
	}
	return out
}
