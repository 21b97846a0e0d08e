package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 50)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)
			require.NotEqual(t, tt.password, hash)

			// bcrypt hashes carry their version and cost prefix
			require.True(t, strings.HasPrefix(hash, "$2a$"),
				"hash should be a bcrypt string")

			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			require.Equal(t, PasswordHashCost, cost)
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// Both still verify the original password
	require.NoError(t, VerifyPassword(password, hash1))
	require.NoError(t, VerifyPassword(password, hash2))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := VerifyPassword("Tr0ub4dor&3", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("near miss", func(t *testing.T) {
		err := VerifyPassword("correct horse battery staple ", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("malformed hash", func(t *testing.T) {
		err := VerifyPassword("anything", "not-a-bcrypt-hash")
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrPasswordMismatch)
	})
}
