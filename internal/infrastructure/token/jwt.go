// Package token signs and verifies session tokens as HS256 JWTs.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

var ErrMissingSecret = errors.New("token: signing secret is required")

type sessionClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Codec implements ports.TokenCodec. Every token it issues expires.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a Codec signing with secret. A non-positive ttl falls back to 24h.
func NewCodec(secret, issuer string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Issue(identity domain.Identity) (string, *domain.Claims, error) {
	now := c.now().UTC().Truncate(time.Second)
	sc := sessionClaims{
		UserID:   identity.ID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, toDomain(sc), nil
}

func (c *Codec) Verify(raw string) (*domain.Claims, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var sc sessionClaims
	tkn, err := jwt.ParseWithClaims(raw, &sc, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || sc.UserID == "" || sc.Username == "" {
		return nil, domain.ErrInvalidToken
	}
	return toDomain(sc), nil
}

func toDomain(sc sessionClaims) *domain.Claims {
	claims := &domain.Claims{
		Identity: domain.Identity{ID: sc.UserID, Username: sc.Username},
		TokenID:  sc.ID,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time.UTC()
	}
	if sc.ExpiresAt != nil {
		claims.ExpiresAt = sc.ExpiresAt.Time.UTC()
	}
	return claims
}
