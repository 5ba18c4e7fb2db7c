package domain

import "time"

// Claims is what a verified session token carries.
type Claims struct {
	Identity
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
