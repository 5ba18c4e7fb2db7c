package domain

import "time"

// User models a registered author. Usernames are case-sensitive and unique.
type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is the public part of a user: what a session token vouches for.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Identity returns the public identity of u.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
