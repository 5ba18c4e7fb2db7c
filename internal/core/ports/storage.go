package ports

import (
	"context"
	"io"
)

// CoverStorage is where accepted cover images live.
type CoverStorage interface {
	// Save stores r under name and returns the number of bytes written.
	Save(ctx context.Context, name string, r io.Reader, size int64) (int64, error)
	// Open returns the stored object and its content type. A missing object
	// yields domain.ErrCoverNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, name string) error
}

// CoverUpload is a single file taken from a multipart request.
type CoverUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CoverService interface {
	// Store validates and persists the upload and returns its cover path.
	Store(ctx context.Context, upload CoverUpload) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// CoverRemover disposes of cover files that no post references any more.
type CoverRemover interface {
	Enqueue(coverPath string)
}
