// Package repo adapts the identity store to the lookup ports the
// orchestration services consume.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/store"
	"github.com/opustack/gatekey/pkg/cryptox"
)

// ErrWrongPassword reports a valid account with a non-matching password.
// Callers are expected to collapse it together with store.ErrNotFound before
// anything reaches an API response.
var ErrWrongPassword = errors.New("repo: wrong password")

// UserRepo finds users by their login credential.
type UserRepo struct {
	Store store.Store
}

// FindByEmailAndPassword looks the user up by email and verifies the
// password against the stored Argon2 hash. Failure kinds: store.ErrNotFound,
// ErrWrongPassword, or a wrapped infrastructure error.
func (r *UserRepo) FindByEmailAndPassword(ctx context.Context, email, password string) (domain.User, error) {
	u, err := r.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("repo: find user by email: %w", err)
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, ErrWrongPassword
		}
		return domain.User{}, fmt.Errorf("repo: verify password: %w", err)
	}

	return u, nil
}

// StrategyRepo lists a user's enrolled second-factor strategies.
type StrategyRepo struct {
	Store store.Store
}

// FindByUserID returns the enrolled strategy set, possibly empty.
func (r *StrategyRepo) FindByUserID(ctx context.Context, userID string) ([]domain.Strategy, error) {
	strategies, err := r.Store.Strategies().ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("repo: list strategies: %w", err)
	}
	return strategies, nil
}
