package mail

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/domodwyer/mailyak/v3"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// SMTPSender sends through an authenticated SMTP relay.
type SMTPSender struct {
	cfg  SMTPConfig
	addr string
	auth smtp.Auth
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	return &SMTPSender{
		cfg:  cfg,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := mailyak.New(s.addr, s.auth)
	m.To(msg.To)
	m.From(s.cfg.From)
	m.FromName(s.cfg.FromName)
	m.Subject(msg.Subject)
	m.HTML().Set(msg.HTML)
	for _, a := range msg.Attachments {
		m.AttachWithMimeType(a.Filename, bytes.NewReader(a.Data), a.ContentType)
	}

	if err := m.Send(); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
