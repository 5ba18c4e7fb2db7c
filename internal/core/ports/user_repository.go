package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserRepository persists user credentials.
type UserRepository interface {
	// Create inserts the user and returns it with its ID set.
	// A taken username yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
