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
	"github.com/Manish1808/Cybernauts/internal/store"
)

type RegistrationInput struct {
	Name   string
	Email  string
	Phone  string
	RollNo string
	Branch string
	Year   string
}

type Registrations struct {
	store     store.Events
	sender    mail.Sender
	catalog   *mail.Catalog
	organizer string
	logger    *slog.Logger
	Now       func() time.Time
}

func NewRegistrations(st store.Events, sender mail.Sender, catalog *mail.Catalog, defaultOrganizer string, logger *slog.Logger) *Registrations {
	return &Registrations{
		store:     st,
		sender:    sender,
		catalog:   catalog,
		organizer: defaultOrganizer,
		logger:    logger,
		Now:       time.Now,
	}
}

// Register adds a participant to the event. Emails are unique per event
// regardless of case.
func (s *Registrations) Register(ctx context.Context, eventID string, in RegistrationInput) (*domain.Participant, error) {
	p := domain.Participant{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		RollNo:       strings.TrimSpace(in.RollNo),
		Branch:       strings.TrimSpace(in.Branch),
		Year:         strings.TrimSpace(in.Year),
		RegisteredAt: s.Now().UTC(),
	}
	if p.Name == "" || p.Email == "" {
		return nil, apperr.InvalidInput("Name and email are required")
	}

	err := s.store.AddParticipant(ctx, eventID, p)
	metrics.TrackRegistration(err)
	if err != nil {
		return nil, err
	}
	s.logger.Info("participant registered", "event_id", eventID, "email", p.Email)
	return &p, nil
}

// Remove drops the participant and tells them by mail. A failed mail is
// logged only.
func (s *Registrations) Remove(ctx context.Context, eventID, email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.InvalidInput("Participant email is required")
	}

	e, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	p, err := s.store.RemoveParticipant(ctx, eventID, email)
	if err != nil {
		return err
	}

	msg, err := s.catalog.Compose(mail.KindParticipantRemoved, p.Email, map[string]any{
		"Name":      p.Name,
		"Event":     e.Title,
		"Organizer": organizerOf(*e, s.organizer),
	})
	if err != nil {
		s.logger.Error("rejection mail not composed", "event_id", eventID, "to", p.Email, "error", err)
		return nil
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("rejection mail failed", "event_id", eventID, "to", p.Email, "error", err)
	}
	return nil
}

func organizerOf(e domain.Event, fallback string) string {
	if strings.TrimSpace(e.Organizer) != "" {
		return e.Organizer
	}
	return fallback
}
