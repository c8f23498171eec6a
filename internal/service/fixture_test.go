package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/mail"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/notify"
	"github.com/Manish1808/Cybernauts/internal/store/memory"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeSender records sent messages and fails for the listed recipients.
type fakeSender struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []mail.Message
}

func (s *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[msg.To] {
		return errors.New("smtp: 550 mailbox unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

// fakeMedia hands out predictable URLs and records deletions.
type fakeMedia struct {
	saved   []string
	deleted []string
	failOn  string
}

func (m *fakeMedia) Save(ctx context.Context, folder string, u media.Upload) (string, error) {
	if u.Filename == m.failOn {
		return "", errors.New("disk full")
	}
	url := "http://media/" + folder + "/" + u.Filename
	m.saved = append(m.saved, url)
	return url, nil
}

func (m *fakeMedia) Delete(ctx context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

func upload(name string) *media.Upload {
	return &media.Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("bytes")), nil
		},
	}
}

type fixture struct {
	store   *memory.Store
	sender  *fakeSender
	media   *fakeMedia
	catalog *mail.Catalog
	sweeper *notify.Sweeper
	now     time.Time
}

func newFixture() *fixture {
	sender := &fakeSender{fail: map[string]bool{}}
	return &fixture{
		store:   memory.New(),
		sender:  sender,
		media:   &fakeMedia{},
		catalog: mail.NewCatalog("en"),
		sweeper: notify.NewSweeper(sender, quiet),
		now:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) clock() time.Time { return f.now }

// seed stores an event ending on endDate with the given participants.
func (f *fixture) seed(t *testing.T, id, endDate string, participants ...domain.Participant) domain.Event {
	t.Helper()
	end, err := domain.ParseDate(endDate)
	require.NoError(t, err)
	e := domain.Event{
		ID:           id,
		Title:        "Event " + id,
		Description:  "desc",
		StartDate:    end,
		EndDate:      end,
		Participants: participants,
	}
	require.NoError(t, f.store.CreateEvent(context.Background(), &e))
	return e
}

func participant(name, email string) domain.Participant {
	return domain.Participant{Name: name, Email: email}
}
