package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// DefaultMaxCoverBytes is the largest cover accepted when none is configured.
const DefaultMaxCoverBytes int64 = 5 << 20

// allowedCoverTypes lists the image formats accepted both as file extension
// and as declared MIME subtype.
var allowedCoverTypes = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
	"gif":  {},
}

// CoverService accepts uploaded cover images.
type CoverService struct {
	storage  ports.CoverStorage
	maxBytes int64
	logger   zerolog.Logger
	newName  func() string
}

func NewCoverService(storage ports.CoverStorage, maxBytes int64, logger zerolog.Logger) *CoverService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxCoverBytes
	}
	return &CoverService{storage: storage, maxBytes: maxBytes, logger: logger, newName: uuid.NewString}
}

// MaxBytes is the size ceiling for a single cover.
func (s *CoverService) MaxBytes() int64 { return s.maxBytes }

// Store checks the declared type and size of the upload, persists it under a
// fresh opaque name and returns the cover path to record on the post.
func (s *CoverService) Store(ctx context.Context, up ports.CoverUpload) (string, error) {
	ext, err := coverExtension(up.Filename, up.ContentType)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("unsupported").Inc()
		return "", err
	}
	if up.Size > s.maxBytes {
		metrics.UploadsTotal.WithLabelValues("too_large").Inc()
		return "", domain.ErrPayloadTooLarge
	}

	name := s.newName() + "." + ext
	n, err := s.storage.Save(ctx, name, io.LimitReader(up.Body, s.maxBytes+1), up.Size)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("store cover: %w", err)
	}
	if n > s.maxBytes {
		// declared size lied
		if rmErr := s.storage.Remove(ctx, name); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("cover", name).Msg("failed to remove oversized cover")
		}
		metrics.UploadsTotal.WithLabelValues("too_large").Inc()
		return "", domain.ErrPayloadTooLarge
	}

	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	s.logger.Debug().Str("cover", name).Int64("bytes", n).Msg("cover stored")
	return domain.CoverPathPrefix + name, nil
}

// Open returns a stored cover by its object name.
func (s *CoverService) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if !domain.IsCoverName(name) {
		return nil, "", domain.ErrCoverNotFound
	}
	return s.storage.Open(ctx, name)
}

// coverExtension returns the lower-cased extension of filename when both it
// and contentType name an allowed image format.
func coverExtension(filename, contentType string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedCoverTypes[ext]; !ok {
		return "", fmt.Errorf("%w: extension %q", domain.ErrUnsupportedMediaType, ext)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: content type %q", domain.ErrUnsupportedMediaType, contentType)
	}
	subtype, ok := strings.CutPrefix(mediaType, "image/")
	if !ok {
		return "", fmt.Errorf("%w: content type %q", domain.ErrUnsupportedMediaType, mediaType)
	}
	if _, ok := allowedCoverTypes[subtype]; !ok {
		return "", fmt.Errorf("%w: content type %q", domain.ErrUnsupportedMediaType, mediaType)
	}
	return ext, nil
}
