package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/middleware"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.Session, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	return nil, domain.ErrInvalidToken
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &domain.User{ID: "u1", Username: username, PasswordHash: "$2a$hash"}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"username":"alice","password":"secret"}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["_id"] != "u1" || resp["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"username":"bob"}`), httptest.NewRecorder())

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"username":"bob","password":"pw"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	e := newTestEcho()
	expires := time.Now().Add(time.Hour)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.Session, error) {
			return &ports.Session{
				Token:     "signed.jwt.value",
				ExpiresAt: expires,
				User:      &domain.User{ID: "u1", Username: username},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{Secure: true})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"username":"alice","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != middleware.SessionCookie || ck.Value != "signed.jwt.value" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if !ck.HttpOnly || !ck.Secure || ck.Path != "/" || ck.MaxAge <= 0 {
		t.Fatalf("cookie attributes not set: %+v", ck)
	}

	var resp identityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "u1" || resp.Username != "alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestAuthHandler_Login_WrongCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"username":"alice","password":"nope"}`), rec)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected on failed login")
	}
}

func TestAuthHandler_Profile(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieOptions{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), rec)
	c.Set(middleware.ClaimsKey, &domain.Claims{
		Identity:  domain.Identity{ID: "u1", Username: "alice"},
		IssuedAt:  time.Unix(1700000000, 0),
		ExpiresAt: time.Unix(1700086400, 0),
	})

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp claimsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := claimsResponse{ID: "u1", Username: "alice", IssuedAt: 1700000000, ExpiresAt: 1700086400}
	if resp != want {
		t.Fatalf("got %+v, want %+v", resp, want)
	}
}

func TestAuthHandler_Profile_WithoutClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{}, CookieOptions{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/profile", nil), httptest.NewRecorder())

	err := handler.Profile(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	e := newTestEcho()
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			revoked = token
			return errors.New("redis unavailable")
		},
	}
	handler := NewAuthHandler(stub, CookieOptions{})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "signed.jwt.value"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "signed.jwt.value" {
		t.Fatalf("token not passed to logout: %q", revoked)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Logged out") {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cookies)
	}
}
