package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Posts returned by
// every method carry a resolved author (id and username).
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// Update overwrites the mutable fields of the post identified by id, but
	// only while it is still owned by authorID. A miss yields domain.ErrPostNotFound.
	Update(ctx context.Context, id, authorID string, fields domain.PostFields) (*domain.Post, error)
	// Delete removes the post and returns what was removed.
	Delete(ctx context.Context, id string) (*domain.Post, error)
	// List returns at most limit posts, newest first.
	List(ctx context.Context, limit int) ([]*domain.Post, error)
}
