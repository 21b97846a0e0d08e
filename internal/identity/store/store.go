package store

import (
	"context"
	"errors"

	"github.com/driftlock/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, implemented by concrete drivers
// (sqlite today). It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user by normalized email. This is the lookup
	// used by login and logout; callers normalize before calling.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the caller via ULID)
	// and returns the stored record with its timestamps set. Email and
	// username uniqueness is enforced here by the storage schema, not by any
	// prior read: a violation returns ErrAlreadyExists even when two inserts
	// race.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// CountUsers returns the total number of user records.
	CountUsers(ctx context.Context) (int64, error)
}
