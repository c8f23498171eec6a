// Package memory keeps every entity in process memory. It backs the
// "memory" store driver for local development and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/store"
)

var (
	_ store.Events   = (*Store)(nil)
	_ store.Admins   = (*Store)(nil)
	_ store.Blogs    = (*Store)(nil)
	_ store.Contacts = (*Store)(nil)
)

type Store struct {
	mu       sync.Mutex
	events   []domain.Event
	admins   []domain.Admin
	blogs    []domain.Blog
	contacts []domain.Contact

	// ContactRetention hides contacts older than this from reads. Zero keeps them forever.
	ContactRetention time.Duration
	Now              func() time.Time
}

func New() *Store {
	return &Store{Now: time.Now}
}

func (s *Store) eventIndex(id string) int {
	return slices.IndexFunc(s.events, func(e domain.Event) bool { return e.ID == id })
}

// -----------------------------
// Events
// -----------------------------

func (s *Store) ListEvents(ctx context.Context) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	e := s.events[i].Clone()
	return &e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := e.Clone()
	c.InitCollections()
	s.events = append(s.events, c)
	return nil
}

func (s *Store) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	patch.Apply(&s.events[i])
	e := s.events[i].Clone()
	return &e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(id)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	e := s.events[i]
	s.events = slices.Delete(s.events, i, i+1)
	return &e, nil
}

func (s *Store) AddParticipant(ctx context.Context, eventID string, p domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(eventID)
	if i < 0 {
		return domain.ErrEventNotFound
	}
	return s.events[i].AddParticipant(p)
}

func (s *Store) RemoveParticipant(ctx context.Context, eventID, email string) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(eventID)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	p, err := s.events[i].RemoveParticipant(email)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) AddFeedback(ctx context.Context, eventID string, f domain.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(eventID)
	if i < 0 {
		return domain.ErrEventNotFound
	}
	return s.events[i].AddFeedback(f)
}

func (s *Store) AddWinner(ctx context.Context, eventID string, w domain.Winner) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(eventID)
	if i < 0 {
		return nil, domain.ErrEventNotFound
	}
	s.events[i].Winners = append(s.events[i].Winners, w)
	e := s.events[i].Clone()
	return &e, nil
}

// -----------------------------
// Admins
// -----------------------------

func (s *Store) adminIndex(match func(domain.Admin) bool) int {
	return slices.IndexFunc(s.admins, match)
}

func (s *Store) CreateAdmin(ctx context.Context, a *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeEmail(a.Email)
	if s.adminIndex(func(x domain.Admin) bool { return domain.NormalizeEmail(x.Email) == key }) >= 0 {
		return domain.ErrAdminExists
	}
	s.admins = append(s.admins, *a)
	return nil
}

func (s *Store) GetAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.adminIndex(func(x domain.Admin) bool { return x.ID == id })
	if i < 0 {
		return nil, domain.ErrAdminNotFound
	}
	a := s.admins[i]
	return &a, nil
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeEmail(email)
	i := s.adminIndex(func(x domain.Admin) bool { return domain.NormalizeEmail(x.Email) == key })
	if i < 0 {
		return nil, domain.ErrAdminNotFound
	}
	a := s.admins[i]
	return &a, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.admins), nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.adminIndex(func(x domain.Admin) bool { return x.ID == a.ID })
	if i < 0 {
		return domain.ErrAdminNotFound
	}
	key := domain.NormalizeEmail(a.Email)
	if j := s.adminIndex(func(x domain.Admin) bool { return domain.NormalizeEmail(x.Email) == key }); j >= 0 && j != i {
		return domain.ErrAdminExists
	}
	s.admins[i] = *a
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.adminIndex(func(x domain.Admin) bool { return x.ID == id })
	if i < 0 {
		return domain.ErrAdminNotFound
	}
	s.admins = slices.Delete(s.admins, i, i+1)
	return nil
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.admins)), nil
}

// -----------------------------
// Blogs
// -----------------------------

func (s *Store) CreateBlog(ctx context.Context, b *domain.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blogs = append(s.blogs, *b)
	return nil
}

func (s *Store) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.blogs), nil
}

func (s *Store) DeleteBlog(ctx context.Context, id string) (*domain.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.blogs, func(b domain.Blog) bool { return b.ID == id })
	if i < 0 {
		return nil, domain.ErrBlogNotFound
	}
	b := s.blogs[i]
	s.blogs = slices.Delete(s.blogs, i, i+1)
	return &b, nil
}

// -----------------------------
// Contacts
// -----------------------------

func (s *Store) expired(c domain.Contact) bool {
	return s.ContactRetention > 0 && s.Now().Sub(c.CreatedAt) >= s.ContactRetention
}

func (s *Store) CreateContact(ctx context.Context, c *domain.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = append(s.contacts, *c)
	return nil
}

// ListContacts drops expired contacts and returns the rest newest first.
func (s *Store) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contacts = slices.DeleteFunc(s.contacts, s.expired)
	out := slices.Clone(s.contacts)
	slices.SortStableFunc(out, func(a, b domain.Contact) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (s *Store) GetContact(ctx context.Context, id string) (*domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.contacts, func(c domain.Contact) bool { return c.ID == id })
	if i < 0 || s.expired(s.contacts[i]) {
		return nil, domain.ErrContactNotFound
	}
	c := s.contacts[i]
	return &c, nil
}

func (s *Store) DeleteContact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.contacts, func(c domain.Contact) bool { return c.ID == id })
	if i < 0 {
		return domain.ErrContactNotFound
	}
	s.contacts = slices.Delete(s.contacts, i, i+1)
	return nil
}
