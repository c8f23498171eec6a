package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/auth"
	"github.com/Manish1808/Cybernauts/internal/domain"
)

func TestExports(t *testing.T) {
	f := newFixture()
	f.seed(t, "e1", "2025-03-01", participant("A", "a@x.com"))
	f.seed(t, "e2", "2025-03-02")
	s := NewExports(f.store, time.UTC)
	s.Now = f.clock

	out, err := s.Event(context.Background(), "e1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.FileName, "Event_e1_registrations_"))

	book, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Event e1 - Registrations"}, book.GetSheetList())

	all, err := s.All(context.Background())
	require.NoError(t, err)
	book2, err := excelize.OpenReader(bytes.NewReader(all.Data))
	require.NoError(t, err)
	defer book2.Close()
	assert.Len(t, book2.GetSheetList(), 2)

	_, err = s.Event(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestContacts(t *testing.T) {
	f := newFixture()
	s := NewContacts(f.store, f.sender, f.catalog, quiet)
	s.Now = f.clock
	ctx := context.Background()

	_, err := s.Create(ctx, ContactInput{Name: "A"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	anon, err := s.Create(ctx, ContactInput{Name: "Anon", Description: "hi"})
	require.NoError(t, err)
	withMail, err := s.Create(ctx, ContactInput{Name: "Asha", Description: "Question", Email: "asha@x.com"})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, s.Respond(ctx, anon.ID, "thanks"), apperr.ErrInvalidInput)
	assert.ErrorIs(t, s.Respond(ctx, withMail.ID, ""), apperr.ErrInvalidInput)
	assert.ErrorIs(t, s.Respond(ctx, "missing", "thanks"), apperr.ErrNotFound)

	require.NoError(t, s.Respond(ctx, withMail.ID, "We will get back"))
	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0].HTML, "We will get back")

	f.sender.fail["asha@x.com"] = true
	assert.Error(t, s.Respond(ctx, withMail.ID, "again"))

	require.NoError(t, s.Delete(ctx, anon.ID))
	assert.ErrorIs(t, s.Delete(ctx, anon.ID), apperr.ErrNotFound)
}

func TestContacts_Retention(t *testing.T) {
	f := newFixture()
	f.store.ContactRetention = 120 * time.Hour
	f.store.Now = func() time.Time { return f.now.Add(121 * time.Hour) }
	s := NewContacts(f.store, f.sender, f.catalog, quiet)
	s.Now = f.clock

	_, err := s.Create(context.Background(), ContactInput{Name: "A", Description: "old"})
	require.NoError(t, err)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBlogs(t *testing.T) {
	f := newFixture()
	s := NewBlogs(f.store, f.media, quiet)
	ctx := context.Background()

	_, err := s.Create(ctx, BlogInput{Title: "T", Description: "D"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	f.media.failOn = "broken.png"
	_, err = s.Create(ctx, BlogInput{Title: "T", Description: "D", Image: upload("broken.png")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrInvalidInput)

	b, err := s.Create(ctx, BlogInput{Title: "T", Description: "D", Image: upload("cover.png")})
	require.NoError(t, err)
	assert.Equal(t, "http://media/blogs/cover.png", b.Image)

	require.NoError(t, s.Delete(ctx, b.ID))
	assert.Equal(t, []string{"http://media/blogs/cover.png"}, f.media.deleted)
	assert.ErrorIs(t, s.Delete(ctx, b.ID), apperr.ErrNotFound)
}

func TestAdmins(t *testing.T) {
	f := newFixture()
	tokens := auth.NewTokens("s3cret", time.Hour)
	s := NewAdmins(f.store, tokens, quiet)
	ctx := context.Background()

	require.NoError(t, s.EnsureSuperAdmin(ctx, "Root@X.com", "rootpass"))
	require.NoError(t, s.EnsureSuperAdmin(ctx, "other@x.com", "pass"))
	n, err := f.store.CountAdmins(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	token, a, err := s.Login(ctx, "root@x.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, a.Role)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, a.ID, claims.Subject)

	_, _, err = s.Login(ctx, "root@x.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, _, err = s.Login(ctx, "nobody@x.com", "x")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	member, err := s.Signup(ctx, AdminInput{Name: "M", Email: "m@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, member.Role)

	_, err = s.Signup(ctx, AdminInput{Name: "M2", Email: "M@X.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	_, err = s.Signup(ctx, AdminInput{Name: "R", Email: "r@x.com", Password: "pw", Role: "owner"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	admins, supers, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)
	assert.Len(t, supers, 1)

	newPass, blank := "newpw", ""
	updated, err := s.Update(ctx, member.ID, AdminUpdate{Password: &newPass, Name: &blank})
	require.NoError(t, err)
	assert.Equal(t, "M", updated.Name)
	_, _, err = s.Login(ctx, "m@x.com", "newpw")
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, member.ID))
	assert.ErrorIs(t, s.Delete(ctx, member.ID), apperr.ErrNotFound)
}
