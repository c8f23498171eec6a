package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/store"
)

type ContactInput struct {
	Name        string
	Description string
	Email       string
}

type Contacts struct {
	store   store.Contacts
	sender  mail.Sender
	catalog *mail.Catalog
	logger  *slog.Logger
	Now     func() time.Time
}

func NewContacts(st store.Contacts, sender mail.Sender, catalog *mail.Catalog, logger *slog.Logger) *Contacts {
	return &Contacts{store: st, sender: sender, catalog: catalog, logger: logger, Now: time.Now}
}

func (s *Contacts) Create(ctx context.Context, in ContactInput) (*domain.Contact, error) {
	c := domain.Contact{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Email:       strings.TrimSpace(in.Email),
		CreatedAt:   s.Now().UTC(),
	}
	if c.Name == "" || c.Description == "" {
		return nil, apperr.InvalidInput("Please provide both name and description.")
	}

	if err := s.store.CreateContact(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Contacts) List(ctx context.Context) ([]domain.Contact, error) {
	return s.store.ListContacts(ctx)
}

func (s *Contacts) Delete(ctx context.Context, id string) error {
	return s.store.DeleteContact(ctx, id)
}

// Respond mails response to the contact's sender. Unlike the other single
// mails a delivery failure is returned, since sending is the whole request.
func (s *Contacts) Respond(ctx context.Context, id, response string) error {
	if strings.TrimSpace(response) == "" {
		return apperr.InvalidInput("Please provide a response for the feedback.")
	}
	c, err := s.store.GetContact(ctx, id)
	if err != nil {
		return err
	}
	if c.Email == "" {
		return apperr.InvalidInput("This contact did not leave an email address.")
	}

	msg, err := s.catalog.Compose(mail.KindContactResponse, c.Email, map[string]any{
		"Name":     c.Name,
		"Response": response,
	})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send contact response: %w", err)
	}
	s.logger.Info("contact response sent", "contact_id", id)
	return nil
}
