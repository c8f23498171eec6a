package service

import (
	"context"

	"github.com/Manish1808/Cybernauts/internal/certificate"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/store"
)

type CertificateRenderer interface {
	Render(d certificate.Data) ([]byte, error)
}

type Certificates struct {
	store          store.Events
	sweeper        *notify.Sweeper
	catalog        *mail.Catalog
	renderer       CertificateRenderer
	signatory      string
	signatoryTitle string
	organizer      string
}

func NewCertificates(st store.Events, sweeper *notify.Sweeper, catalog *mail.Catalog, renderer CertificateRenderer, signatory, signatoryTitle, defaultOrganizer string) *Certificates {
	return &Certificates{
		store:          st,
		sweeper:        sweeper,
		catalog:        catalog,
		renderer:       renderer,
		signatory:      signatory,
		signatoryTitle: signatoryTitle,
		organizer:      defaultOrganizer,
	}
}

// Issue renders a certificate for each participant and mails it as an
// attachment.
func (s *Certificates) Issue(ctx context.Context, eventID string) (notify.Result, error) {
	e, err := eventWithParticipants(ctx, s.store, eventID)
	if err != nil {
		return notify.Result{}, err
	}

	date := e.StartDate.UTC().Format("02/01/2006")
	faculty := ""
	if len(e.Faculty) > 0 {
		faculty = e.Faculty[0]
	}
	organizer := organizerOf(*e, s.organizer)

	return s.sweeper.Run(ctx, mail.KindCertificate, recipientsOf(e.Participants),
		func(ctx context.Context, r notify.Recipient) (mail.Message, error) {
			pdf, err := s.renderer.Render(certificate.Data{
				Participant:    r.Name,
				Event:          e.Title,
				Date:           date,
				Faculty:        faculty,
				Signatory:      s.signatory,
				SignatoryTitle: s.signatoryTitle,
			})
			if err != nil {
				return mail.Message{}, err
			}

			msg, err := s.catalog.Compose(mail.KindCertificate, r.Email, map[string]any{
				"Name":      r.Name,
				"Event":     e.Title,
				"Date":      date,
				"Organizer": organizer,
			})
			if err != nil {
				return mail.Message{}, err
			}
			msg.Attachments = []mail.Attachment{{
				Filename:    certificate.FileName(r.Name),
				ContentType: certificate.ContentType,
				Data:        pdf,
			}}
			return msg, nil
		}), nil
}
