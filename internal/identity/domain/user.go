package domain

import (
	"strings"
	"time"
)

// Username and password limits, matching what the registration form enforces.
const (
	UsernameMinLen = 1
	UsernameMaxLen = 30
	PasswordMinLen = 6
	PasswordMaxLen = 50
)

// User is the persisted identity record. PasswordHash is a bcrypt hash and
// must never leave the process in any externally visible representation.
type User struct {
	ID           string
	Username     string // normalized: trimmed, lowercase
	Email        string // normalized: trimmed, lowercase; authentication lookup key
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the externally visible projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// PublicUser is what callers of the authentication operations get back.
// There is deliberately no password field here.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Normalize lowercases and trims surrounding whitespace. Emails and usernames
// are normalized before every comparison and before storage, so lookups are
// case-insensitive by construction.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
