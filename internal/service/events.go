// Package service implements the use cases behind the HTTP handlers. Every
// service depends on the store interfaces only, so tests run against the
// memory store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/store"
)

const (
	posterFolder = "posters"
	imageFolder  = "events"
)

type Events struct {
	store  store.Events
	media  media.Storage
	loc    *time.Location
	logger *slog.Logger
	Now    func() time.Time
}

func NewEvents(st store.Events, m media.Storage, loc *time.Location, logger *slog.Logger) *Events {
	return &Events{store: st, media: m, loc: loc, logger: logger, Now: time.Now}
}

// List splits all events into upcoming and completed as of now.
func (s *Events) List(ctx context.Context) (upcoming, completed []domain.Event, err error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, nil, err
	}
	upcoming, completed = domain.Partition(events, s.Now(), s.loc)
	return upcoming, completed, nil
}

func (s *Events) All(ctx context.Context) ([]domain.Event, error) {
	return s.store.ListEvents(ctx)
}

// Recent returns the completed event that ended last.
func (s *Events) Recent(ctx context.Context) (*domain.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := domain.MostRecentCompleted(events, s.Now(), s.loc)
	if !ok {
		return nil, apperr.NotFound("No recent events found")
	}
	return &e, nil
}

func (s *Events) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.store.GetEvent(ctx, id)
}

// Create stores e with a fresh id. A poster that fails to upload is logged
// and the event is created without it.
func (s *Events) Create(ctx context.Context, e domain.Event, poster *media.Upload) (*domain.Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	e.ID = uuid.NewString()
	e.CreatedAt = s.Now().UTC()
	e.Participants, e.Winners, e.Feedbacks, e.AverageRating = nil, nil, nil, 0
	e.InitCollections()

	if poster != nil {
		url, err := s.media.Save(ctx, posterFolder, *poster)
		if err != nil {
			s.logger.Warn("poster upload failed, creating event without poster", "error", err)
		} else {
			e.Poster = url
		}
	}

	if err := s.store.CreateEvent(ctx, &e); err != nil {
		s.discard(ctx, e.Poster)
		return nil, err
	}
	s.logger.Info("event created", "event_id", e.ID, "title", e.Title)
	return &e, nil
}

// Update merges patch into the event. New poster or image uploads replace
// the stored ones; the old files are removed once the update is saved, the
// new ones when it is not.
func (s *Events) Update(ctx context.Context, id string, patch domain.EventPatch, poster *media.Upload, images []media.Upload) (*domain.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	var stale, fresh []string
	if poster != nil {
		url, err := s.media.Save(ctx, posterFolder, *poster)
		if err != nil {
			s.logger.Warn("poster upload failed, keeping current poster", "event_id", id, "error", err)
		} else {
			patch.Poster = &url
			fresh = append(fresh, url)
			stale = append(stale, current.Poster)
		}
	}
	if len(images) > 0 {
		var urls []string
		for _, img := range images {
			url, err := s.media.Save(ctx, imageFolder, img)
			if err != nil {
				s.logger.Warn("image upload failed", "event_id", id, "file", img.Filename, "error", err)
				continue
			}
			urls = append(urls, url)
		}
		if len(urls) > 0 {
			patch.Images = urls
			fresh = append(fresh, urls...)
			stale = append(stale, current.Images...)
		}
	}

	updated, err := s.store.UpdateEvent(ctx, id, patch)
	if err != nil {
		s.discard(ctx, fresh...)
		return nil, err
	}
	s.discard(ctx, stale...)
	return updated, nil
}

// Delete removes the event and then its poster and images.
func (s *Events) Delete(ctx context.Context, id string) error {
	e, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return err
	}
	s.discard(ctx, e.Poster)
	s.discard(ctx, e.Images...)
	s.logger.Info("event deleted", "event_id", id)
	return nil
}

func (s *Events) AddWinner(ctx context.Context, id string, w domain.Winner) (*domain.Event, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return s.store.AddWinner(ctx, id, w)
}

// discard deletes media best-effort.
func (s *Events) discard(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.media.Delete(ctx, url); err != nil {
			s.logger.Warn("media delete failed", "url", url, "error", err)
		}
	}
}
