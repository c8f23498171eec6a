// Package store declares the persistence contracts the services depend on.
// Implementations live in the sub-packages and translate driver errors into
// the domain errors so callers never see a driver type.
package store

import (
	"context"

	"github.com/Manish1808/Cybernauts/internal/domain"
)

// Events persists event aggregates. AddParticipant and AddFeedback must run
// their uniqueness checks atomically with the write.
type Events interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	CreateEvent(ctx context.Context, e *domain.Event) error
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	// DeleteEvent returns the removed event so its media can be cleaned up.
	DeleteEvent(ctx context.Context, id string) (*domain.Event, error)

	// AddParticipant returns domain.ErrEventNotFound or domain.ErrAlreadyRegistered.
	AddParticipant(ctx context.Context, eventID string, p domain.Participant) error
	RemoveParticipant(ctx context.Context, eventID, email string) (*domain.Participant, error)
	// AddFeedback appends f and recomputes the average rating. It returns
	// domain.ErrEventNotFound, domain.ErrNotParticipant or domain.ErrFeedbackSubmitted.
	AddFeedback(ctx context.Context, eventID string, f domain.Feedback) error
	AddWinner(ctx context.Context, eventID string, w domain.Winner) (*domain.Event, error)
}

type Admins interface {
	CreateAdmin(ctx context.Context, a *domain.Admin) error
	GetAdmin(ctx context.Context, id string) (*domain.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	ListAdmins(ctx context.Context) ([]domain.Admin, error)
	UpdateAdmin(ctx context.Context, a *domain.Admin) error
	DeleteAdmin(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int64, error)
}

type Blogs interface {
	CreateBlog(ctx context.Context, b *domain.Blog) error
	ListBlogs(ctx context.Context) ([]domain.Blog, error)
	DeleteBlog(ctx context.Context, id string) (*domain.Blog, error)
}

// Contacts are listed newest first and disappear after the retention window.
type Contacts interface {
	CreateContact(ctx context.Context, c *domain.Contact) error
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	GetContact(ctx context.Context, id string) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}
