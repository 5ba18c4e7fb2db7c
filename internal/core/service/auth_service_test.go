package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/infrastructure/token"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("%024x", r.seq)
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubRevocationList struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocationList() *stubRevocationList {
	return &stubRevocationList{revoked: make(map[string]time.Time)}
}

func (l *stubRevocationList) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if l.err != nil {
		return l.err
	}
	l.revoked[tokenID] = until
	return nil
}

func (l *stubRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.revoked[tokenID]
	return ok, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubRevocationList) {
	t.Helper()
	codec, err := token.NewCodec("secret", "blog-api", time.Hour)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	repo := newStubUserRepo()
	revoked := newStubRevocationList()
	return NewAuthService(repo, codec, revoked, zerolog.Nop()), repo, revoked
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with id, got %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_SaltsEveryHash(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	a, _ := svc.Register(context.Background(), "alice", "same")
	b, _ := svc.Register(context.Background(), "bob", "same")
	if a.PasswordHash == b.PasswordHash {
		t.Fatalf("expected distinct hashes for the same password")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "   ", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank username: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", " \t "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("blank password: expected ErrValidation, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no users stored, got %d", len(repo.users))
	}
}

func TestAuthService_Register_PasswordByteLimit(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	// 40 two-byte runes: 80 bytes, over bcrypt's limit.
	_, err := svc.Register(context.Background(), "alice", strings.Repeat("é", 40))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("expected no users stored, got %d", len(repo.users))
	}

	// 36 two-byte runes: exactly 72 bytes.
	if _, err := svc.Register(context.Background(), "alice", strings.Repeat("é", 36)); err != nil {
		t.Fatalf("72-byte password rejected: %v", err)
	}
}

func TestAuthService_Login_BlankCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "  ", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "bob", "pass"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	before := len(repo.users)

	if _, err := svc.Register(context.Background(), "bob", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.users) != before {
		t.Fatalf("user count changed: %d -> %d", before, len(repo.users))
	}
}

func TestAuthService_Register_UsernameIsCaseSensitive(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), "Bob", "pass")
	if _, err := svc.Register(context.Background(), "bob", "pass"); err != nil {
		t.Fatalf("expected distinct usernames, got %v", err)
	}
}

func TestAuthService_Login_ThenAuthenticate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	session, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if session.ExpiresAt.IsZero() {
		t.Fatalf("expected an expiry")
	}

	claims, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if claims.ID != registered.ID || claims.Username != "carol" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), "dave", "goodpass")
	if _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Authenticate_Failures(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Authenticate(context.Background(), ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	svc, _, revoked := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), "erin", "pw")
	session, err := svc.Login(context.Background(), "erin", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), session.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(revoked.revoked) != 1 {
		t.Fatalf("expected one revoked token, got %d", len(revoked.revoked))
	}
	if _, err := svc.Authenticate(context.Background(), session.Token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestAuthService_Logout_WithoutToken(t *testing.T) {
	svc, _, revoked := newTestAuthService(t)

	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.Logout(context.Background(), "garbage"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(revoked.revoked) != 0 {
		t.Fatalf("expected nothing revoked")
	}
}

func TestAuthService_Authenticate_RevocationStoreDown(t *testing.T) {
	svc, _, revoked := newTestAuthService(t)

	_, _ = svc.Register(context.Background(), "frank", "pw")
	session, _ := svc.Login(context.Background(), "frank", "pw")

	revoked.err = errors.New("connection refused")
	_, err := svc.Authenticate(context.Background(), session.Token)
	if err == nil || errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected an internal error, got %v", err)
	}
}
