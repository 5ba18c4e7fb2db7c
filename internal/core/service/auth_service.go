package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// AuthService implements registration, login and session checks.
type AuthService struct {
	repo    ports.UserRepository
	tokens  ports.TokenCodec
	revoked ports.RevocationList // optional
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the service. revoked may be nil, in which case logout
// only clears the client cookie.
func NewAuthService(repo ports.UserRepository, tokens ports.TokenCodec, revoked ports.RevocationList, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, revoked: revoked, log: log, now: time.Now}
}

// maxPasswordBytes is the longest input bcrypt accepts. The limit is in
// bytes, so multibyte passwords reach it with fewer characters.
const maxPasswordBytes = 72

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if err := requireCredentials(username, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", outcome(err)).Inc()
		return nil, err
	}
	if len(password) > maxPasswordBytes {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", outcome(err)).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	if err := requireCredentials(username, password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(err)).Inc()
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", outcome(domain.ErrInvalidCredentials)).Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return &ports.Session{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// Authenticate resolves a cookie value to the claims it carries.
// No token yields domain.ErrUnauthenticated; a bad or revoked one domain.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if s.revoked != nil && claims.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revoked", domain.ErrInvalidToken)
		}
	}
	return claims, nil
}

// Logout revokes token when it is still valid. Absent or invalid tokens are
// not an error: there is nothing left to revoke.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.revoked == nil || token == "" {
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil || claims.TokenID == "" {
		return nil
	}
	if !claims.ExpiresAt.After(s.now()) {
		return nil
	}

	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		s.log.Warn().Err(err).Str("user_id", claims.ID).Msg("failed to revoke session")
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info().Str("user_id", claims.ID).Msg("session revoked")
	return nil
}

// requireCredentials treats blank fields as missing, as post validation does.
func requireCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	return nil
}

// outcome turns an error into a short metric label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "wrong_password"
	default:
		return "error"
	}
}
