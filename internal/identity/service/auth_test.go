package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/driftlock/identity/internal/identity/service"
	"github.com/driftlock/identity/internal/identity/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *service.AuthService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())

	return &service.AuthService{Store: st}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("returns public view without password", func(t *testing.T) {
		svc := newTestService(t)

		user, err := svc.Register(ctx, "alice", "alice@x.com", "secret1")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "alice@x.com", user.Email)
	})

	t.Run("normalizes username and email", func(t *testing.T) {
		svc := newTestService(t)

		user, err := svc.Register(ctx, "  Alice  ", " ALICE@X.COM ", "secret1")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "alice@x.com", user.Email)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestService(t)

		for _, tc := range []struct{ username, email, password string }{
			{"", "e@x.com", "password"},
			{"bob", "", "password"},
			{"bob", "e@x.com", ""},
			{"   ", "e@x.com", "password"},
		} {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			require.ErrorIs(t, err, service.ErrMissingFields)
		}
	})

	t.Run("rejects out-of-range fields", func(t *testing.T) {
		svc := newTestService(t)

		longName := ""
		for i := 0; i < 31; i++ {
			longName += "a"
		}

		_, err := svc.Register(ctx, longName, "e@x.com", "password")
		require.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = svc.Register(ctx, "bob", "not-an-email", "password")
		require.ErrorIs(t, err, service.ErrInvalidInput)

		_, err = svc.Register(ctx, "bob", "e@x.com", "short")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("duplicate email conflicts regardless of case", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Register(ctx, "a", "x@y.com", "password1")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "b", "X@Y.COM", "password2")
		require.ErrorIs(t, err, service.ErrUserExists)
	})

	t.Run("failed register leaves no record behind", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@x.com", "secret1")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "alice2", "alice@x.com", "secret2")
		require.ErrorIs(t, err, service.ErrUserExists)

		// The losing attempt must not have touched the stored credentials.
		user, err := svc.Login(ctx, "alice@x.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
	})
}

// N concurrent registrations with the same email must produce exactly one
// account. The store's unique constraint decides the winner, not the
// service's pre-check.
func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			username := fmt.Sprintf("user%d", i)
			_, errs[i] = svc.Register(ctx, username, "race@x.com", "password1")
		}()
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, service.ErrUserExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, successes)
	require.Equal(t, n-1, conflicts)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip after register", func(t *testing.T) {
		svc := newTestService(t)

		registered, err := svc.Register(ctx, "alice", "alice@x.com", "secret1")
		require.NoError(t, err)

		loggedIn, err := svc.Login(ctx, "alice@x.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, registered, loggedIn)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Register(ctx, "alice", "Alice@X.com", "secret1")
		require.NoError(t, err)

		user, err := svc.Login(ctx, "ALICE@x.COM", "secret1")
		require.NoError(t, err)
		require.Equal(t, "alice@x.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@x.com", "secret1")
		require.NoError(t, err)

		_, err = svc.Login(ctx, "alice@x.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Login(ctx, "nobody@x.com", "x")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Login(ctx, "", "password")
		require.ErrorIs(t, err, service.ErrMissingFields)

		_, err = svc.Login(ctx, "e@x.com", "")
		require.ErrorIs(t, err, service.ErrMissingFields)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("known user", func(t *testing.T) {
		svc := newTestService(t)

		_, err := svc.Register(ctx, "alice", "alice@x.com", "secret1")
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, "ALICE@X.COM"))

		// Logout mutates nothing; a login afterwards still works.
		_, err = svc.Login(ctx, "alice@x.com", "secret1")
		require.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := newTestService(t)

		err := svc.Logout(ctx, "nobody@x.com")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		svc := newTestService(t)

		err := svc.Logout(ctx, "   ")
		require.ErrorIs(t, err, service.ErrMissingFields)
	})
}
