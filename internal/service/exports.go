package service

import (
	"bytes"
	"context"
	"time"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/report"
	"github.com/Manish1808/Cybernauts/internal/store"
)

// Export is a generated spreadsheet ready for download.
type Export struct {
	FileName string
	Data     []byte
}

type Exports struct {
	store store.Events
	loc   *time.Location
	Now   func() time.Time
}

func NewExports(st store.Events, loc *time.Location) *Exports {
	return &Exports{store: st, loc: loc, Now: time.Now}
}

// Event exports the registrations of one event.
func (s *Exports) Event(ctx context.Context, id string) (*Export, error) {
	e, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.build(e.Title, []domain.Event{*e})
}

// All exports every event, one worksheet each.
func (s *Exports) All(ctx context.Context) (*Export, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return s.build("all_events", events)
}

func (s *Exports) build(name string, events []domain.Event) (*Export, error) {
	var buf bytes.Buffer
	if err := report.WriteRegistrations(&buf, events, s.loc); err != nil {
		return nil, err
	}
	return &Export{FileName: report.FileName(name, s.Now()), Data: buf.Bytes()}, nil
}
