package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manish1808/Cybernauts/internal/domain"
)

func TestConcurrentRegistrationKeepsOne(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateEvent(ctx, &domain.Event{ID: "e1", Title: "t"}))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.AddParticipant(ctx, "e1", domain.Participant{Name: "A", Email: "A@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrAlreadyRegistered):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, conflicts)
}

func TestReadsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateEvent(ctx, &domain.Event{ID: "e1", Faculty: []string{"Dr. Rao"}}))

	e, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	e.Faculty[0] = "changed"

	again, err := s.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", again.Faculty[0])
	assert.Equal(t, []domain.Participant{}, again.Participants)
}

func TestContactsExpire(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := New()
	s.ContactRetention = 5 * 24 * time.Hour
	s.Now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.CreateContact(ctx, &domain.Contact{ID: "old", CreatedAt: now.Add(-5 * 24 * time.Hour)}))
	require.NoError(t, s.CreateContact(ctx, &domain.Contact{ID: "a", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateContact(ctx, &domain.Contact{ID: "b", CreatedAt: now}))

	list, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	_, err = s.GetContact(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestAdminEmailUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateAdmin(ctx, &domain.Admin{ID: "1", Email: "root@example.com"}))
	require.NoError(t, s.CreateAdmin(ctx, &domain.Admin{ID: "2", Email: "other@example.com"}))

	assert.ErrorIs(t, s.CreateAdmin(ctx, &domain.Admin{ID: "3", Email: " ROOT@example.com"}), domain.ErrAdminExists)
	assert.ErrorIs(t, s.UpdateAdmin(ctx, &domain.Admin{ID: "2", Email: "root@example.com"}), domain.ErrAdminExists)
	assert.ErrorIs(t, s.DeleteAdmin(ctx, "missing"), domain.ErrAdminNotFound)
}
