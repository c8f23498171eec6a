package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
	"github.com/Manish1808/Cybernauts/internal/media"
	"github.com/Manish1808/Cybernauts/internal/store"
)

const blogFolder = "blogs"

type BlogInput struct {
	Title       string
	Description string
	Image       *media.Upload
}

type Blogs struct {
	store  store.Blogs
	media  media.Storage
	logger *slog.Logger
	Now    func() time.Time
}

func NewBlogs(st store.Blogs, m media.Storage, logger *slog.Logger) *Blogs {
	return &Blogs{store: st, media: m, logger: logger, Now: time.Now}
}

// Create uploads the image and stores the post. Unlike event posters the
// image is required, so an upload failure fails the request.
func (s *Blogs) Create(ctx context.Context, in BlogInput) (*domain.Blog, error) {
	title, desc := strings.TrimSpace(in.Title), strings.TrimSpace(in.Description)
	if title == "" || desc == "" || in.Image == nil {
		return nil, apperr.InvalidInput("All fields are required")
	}

	url, err := s.media.Save(ctx, blogFolder, *in.Image)
	if err != nil {
		return nil, fmt.Errorf("upload blog image: %w", err)
	}

	b := domain.Blog{
		ID:          uuid.NewString(),
		Title:       title,
		Description: desc,
		Image:       url,
		CreatedAt:   s.Now().UTC(),
	}
	if err := s.store.CreateBlog(ctx, &b); err != nil {
		if derr := s.media.Delete(ctx, url); derr != nil {
			s.logger.Warn("media delete failed", "url", url, "error", derr)
		}
		return nil, err
	}
	return &b, nil
}

func (s *Blogs) List(ctx context.Context) ([]domain.Blog, error) {
	return s.store.ListBlogs(ctx)
}

func (s *Blogs) Delete(ctx context.Context, id string) error {
	b, err := s.store.DeleteBlog(ctx, id)
	if err != nil {
		return err
	}
	if err := s.media.Delete(ctx, b.Image); err != nil {
		s.logger.Warn("media delete failed", "url", b.Image, "error", err)
	}
	return nil
}
