package mail

import (
	"embed"
	"fmt"
	"html"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

// Message kinds. Each kind has a <kind>_subject and <kind>_body entry in the
// locale files.
const (
	KindFeedbackRequest    = "feedback_request"
	KindCertificate        = "certificate"
	KindEventUpdate        = "event_update"
	KindParticipantRemoved = "participant_removed"
	KindContactResponse    = "contact_response"
	KindAnnouncement       = "announcement"
)

// Catalog renders the email templates for one locale.
type Catalog struct {
	localizer *i18n.Localizer
}

func NewCatalog(locale string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if _, err := bundle.LoadMessageFileFS(localeFS, "locales/active.en.toml"); err != nil {
		log.Printf("i18n: failed to load mail templates: %v", err)
	}

	return &Catalog{localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String())}
}

// Compose renders the subject and body of kind for to. String values in data
// are HTML-escaped before they reach the body. A kind without templates is an
// error so no placeholder mail goes out.
func (c *Catalog) Compose(kind, to string, data map[string]any) (Message, error) {
	escaped := make(map[string]any, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			v = html.EscapeString(s)
		}
		escaped[k] = v
	}

	subject, err := c.render(kind+"_subject", data)
	if err != nil {
		return Message{}, err
	}
	body, err := c.render(kind+"_body", escaped)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: body}, nil
}

func (c *Catalog) render(id string, data map[string]any) (string, error) {
	msg, err := c.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return "", fmt.Errorf("mail: render %s: %w", id, err)
	}
	return msg, nil
}
