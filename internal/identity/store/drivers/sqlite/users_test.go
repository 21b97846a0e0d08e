package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/driftlock/identity/internal/identity/domain"
	"github.com/driftlock/identity/internal/identity/store"
	"github.com/driftlock/identity/internal/identity/store/drivers/sqlite"
	"github.com/driftlock/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func testUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.Users().CreateUser(ctx, testUser("alice", "alice@example.com"))
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)

	byEmail, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)
	require.Equal(t, "alice", byEmail.Username)
	require.Equal(t, created.PasswordHash, byEmail.PasswordHash)

	byID, err := st.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, byEmail, byID)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Users().GetUserByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, testUser("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, testUser("bob", "alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, testUser("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, testUser("alice", "other@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

// The unique index, not any prior read, must decide concurrent duplicate
// inserts: exactly one succeeds, the rest observe ErrAlreadyExists.
func TestCreateUser_ConcurrentSameEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = st.Users().CreateUser(ctx, testUser("alice", "alice@example.com"))
		}()
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, store.ErrAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	require.Equal(t, 1, successes)
	require.Equal(t, n-1, conflicts)
}

func TestCountUsers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	count, err := st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	_, err = st.Users().CreateUser(ctx, testUser("alice", "alice@example.com"))
	require.NoError(t, err)

	count, err = st.Users().CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, testUser("alice", "alice@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Insert was rolled back
	_, err = st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
