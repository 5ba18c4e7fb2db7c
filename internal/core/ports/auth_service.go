package ports

import (
	"context"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
	Logout(ctx context.Context, token string) error
}
