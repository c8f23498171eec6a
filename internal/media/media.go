// Package media stores uploaded posters, event images and blog images and
// hands back the public URL they are served from.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the route the files are served under.
const URLPrefix = "/media"

type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type Storage interface {
	Save(ctx context.Context, folder string, u Upload) (string, error)
	// Delete removes the file behind url. URLs this storage did not issue
	// are ignored.
	Delete(ctx context.Context, url string) error
}

// Disk keeps files below Root and builds URLs from BaseURL.
type Disk struct {
	Root    string
	BaseURL string
}

func NewDisk(root, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Disk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Disk) Save(ctx context.Context, folder string, u Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = path.Clean("/" + folder)[1:]
	name := uuid.NewString() + strings.ToLower(filepath.Ext(u.Filename))

	dir := filepath.Join(d.Root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return d.BaseURL + URLPrefix + "/" + path.Join(folder, name), nil
}

func (d *Disk) Delete(ctx context.Context, url string) error {
	prefix := d.BaseURL + URLPrefix + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	rel := path.Clean("/" + strings.TrimPrefix(url, prefix))[1:]
	if rel == "" {
		return nil
	}

	err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
