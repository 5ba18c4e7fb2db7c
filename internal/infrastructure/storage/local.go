package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// Local stores covers as files in a single directory.
type Local struct {
	dir string
}

// NewLocal returns a Local rooted at dir, creating the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save writes r to a temporary file first and renames it into place, so a
// client that disconnects mid-upload never leaves a partial cover behind.
func (l *Local) Save(ctx context.Context, name string, r io.Reader, _ int64) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write cover: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmpName, filepath.Join(l.dir, name)); err != nil {
		return 0, fmt.Errorf("commit cover: %w", err)
	}
	committed = true
	return n, nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	if checkName(name) != nil {
		return nil, "", domain.ErrCoverNotFound
	}

	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrCoverNotFound
		}
		return nil, "", fmt.Errorf("open cover: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

// Remove deletes the named cover. Removing a cover that is already gone is not an error.
func (l *Local) Remove(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cover: %w", err)
	}
	return nil
}
