package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor used for all password hashes.
// Bumping this only affects newly created hashes; existing hashes keep the
// cost they were created with, recorded inside the hash string itself.
const PasswordHashCost = 10

// ErrPasswordMismatch is returned by VerifyPassword when the plaintext does
// not correspond to the stored hash. Any other error means the hash itself
// was unusable.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword hashes a plaintext password with bcrypt. A fresh random salt
// is generated on every call, so hashing the same password twice yields two
// different strings; use VerifyPassword to compare, never string equality.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a bcrypt hash. The salt
// and cost are read back out of the hash string, and the comparison is
// constant-time inside bcrypt. A mismatch returns ErrPasswordMismatch rather
// than being treated as an unexpected failure.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("cryptox: verify password: %w", err)
	}
}
