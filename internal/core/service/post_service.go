package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// ListLimit is how many posts the front page shows.
const ListLimit = 20

type PostService struct {
	repo                 ports.PostRepository
	covers               ports.CoverRemover
	deleteRequiresAuthor bool
	logger               zerolog.Logger
	now                  func() time.Time
}

// PostOption customises a PostService.
type PostOption func(*PostService)

// WithDeleteRequiresAuthor restricts deletion to the post's author.
func WithDeleteRequiresAuthor(on bool) PostOption {
	return func(s *PostService) { s.deleteRequiresAuthor = on }
}

func NewPostService(repo ports.PostRepository, covers ports.CoverRemover, logger zerolog.Logger, opts ...PostOption) *PostService {
	s := &PostService{repo: repo, covers: covers, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new post attributed to in.AuthorID.
func (s *PostService) Create(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	if err := validateFields(in.Title, in.Summary); err != nil {
		s.discard(in.Cover)
		return nil, err
	}
	if in.AuthorID == "" {
		s.discard(in.Cover)
		return nil, domain.ErrUnauthenticated
	}

	now := s.now().UTC()
	post, err := s.repo.Create(ctx, &domain.Post{
		Title:     in.Title,
		Summary:   in.Summary,
		Content:   in.Content,
		Cover:     in.Cover,
		Author:    domain.AuthorRef{ID: in.AuthorID},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("author_id", in.AuthorID).Msg("failed to create post")
		s.discard(in.Cover)
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.PostsWrittenTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("post_id", post.ID).Str("author_id", in.AuthorID).Msg("post created")
	return post, nil
}

// Update overwrites a post on behalf of its author and returns the stored result.
// The cover only changes when a new one is supplied.
func (s *PostService) Update(ctx context.Context, in ports.UpdatePostInput) (*domain.Post, error) {
	if err := validateFields(in.Title, in.Summary); err != nil {
		s.discard(in.Cover)
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		s.discard(in.Cover)
		return nil, err
	}
	if !current.IsAuthoredBy(in.RequesterID) {
		s.logger.Warn().Str("post_id", in.ID).Str("requester_id", in.RequesterID).Msg("update refused: not the author")
		s.discard(in.Cover)
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, in.ID, in.RequesterID, domain.PostFields{
		Title:   in.Title,
		Summary: in.Summary,
		Content: in.Content,
		Cover:   in.Cover,
	})
	if err != nil {
		s.discard(in.Cover)
		return nil, err
	}

	if in.Cover != "" && current.Cover != "" && current.Cover != in.Cover {
		s.discard(current.Cover)
	}

	metrics.PostsWrittenTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("post_id", in.ID).Msg("post updated")
	return updated, nil
}

// Delete removes a post. Authorship is only checked when the service was
// built WithDeleteRequiresAuthor.
func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	if s.deleteRequiresAuthor {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsAuthoredBy(requesterID) {
			return domain.ErrForbidden
		}
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.discard(deleted.Cover)
	metrics.PostsWrittenTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("post_id", id).Str("requester_id", requesterID).Msg("post deleted")
	return nil
}

func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// discard hands a cover that no post will reference to the remover.
func (s *PostService) discard(cover string) {
	if cover == "" || s.covers == nil {
		return
	}
	s.covers.Enqueue(cover)
}

func validateFields(title, summary string) error {
	var missing []string
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(summary) == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", domain.ErrValidation, strings.Join(missing, " and "))
	}
	return nil
}
