package ports

import (
	"context"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// TokenCodec issues and verifies signed session tokens.
type TokenCodec interface {
	Issue(identity domain.Identity) (string, *domain.Claims, error)
	// Verify returns domain.ErrInvalidToken for anything that is not a
	// well-formed, correctly signed, unexpired token.
	Verify(token string) (*domain.Claims, error)
}

// RevocationList remembers logged-out tokens until they would expire anyway.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
