package store

import (
	"context"
	"errors"

	"github.com/opustack/gatekey/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the identity database.
// Concrete drivers (sqlite for now) implement this. Sub-repositories keep
// concerns tidy and let transactional code reuse the same interfaces.
type Store interface {
	Users() Users
	Strategies() Strategies

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

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser applies a partial update and bumps updated_at.
	UpdateUser(ctx context.Context, userID string, upd domain.UserUpdate) error

	// ListUsers returns all users ordered by creation.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type Strategies interface {
	// ListByUserID returns the user's enrolled strategies. Never contains
	// duplicates; may be empty.
	ListByUserID(ctx context.Context, userID string) ([]domain.Strategy, error)

	// Enroll records a strategy for a user. Enrolling the same strategy
	// twice returns ErrAlreadyExists.
	Enroll(ctx context.Context, userID string, s domain.Strategy) error

	// Remove deletes an enrolment.
	Remove(ctx context.Context, userID string, s domain.Strategy) error
}
