package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const (
	// SessionCookie carries the session token issued on login.
	SessionCookie = "token"
	// ClaimsKey is the echo context key holding *domain.Claims.
	ClaimsKey = "claims"
)

// Authenticator resolves a session token into the caller's claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
}

// Auth validates the session cookie and injects the claims into context.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}

			claims, err := auth.Authenticate(c.Request().Context(), token)
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			case errors.Is(err, domain.ErrInvalidToken):
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInvalidToken.Error())
			case err != nil:
				return err
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
