package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// CreatePostInput carries all data needed to create a post.
type CreatePostInput struct {
	Title    string
	Summary  string
	Content  string
	Cover    string // optional, as returned by CoverService.Store
	AuthorID string
}

// UpdatePostInput carries an edit request. An empty Cover keeps the current cover.
type UpdatePostInput struct {
	ID          string
	Title       string
	Summary     string
	Content     string
	Cover       string
	RequesterID string
}

type PostService interface {
	Create(ctx context.Context, in CreatePostInput) (*domain.Post, error)
	Update(ctx context.Context, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, requesterID string) error
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
}
