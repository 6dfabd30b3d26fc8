package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/store"
	"github.com/opustack/gatekey/pkg/cryptox"
	"github.com/opustack/gatekey/pkg/idx"
)

var (
	ErrUserExists      = errors.New("user_exists")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrAlreadyEnrolled = errors.New("strategy_already_enrolled")
)

// UserService manages identity records and strategy enrolment. Login and
// step-up never touch it; it exists for the management API.
type UserService struct {
	Store store.Store
}

// Create registers a new user and returns its id.
func (s *UserService) Create(ctx context.Context, name, email, password string) (string, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return u.ID, nil
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, userID string, upd domain.UserUpdate) error {
	if err := s.Store.Users().UpdateUser(ctx, userID, upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// EnrollStrategy records a second factor for the user. The existence check
// and the insert run in one transaction so a concurrent delete cannot leave
// an enrolment behind for a missing user.
func (s *UserService) EnrollStrategy(ctx context.Context, userID string, strategy domain.Strategy) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		if err := tx.Strategies().Enroll(ctx, userID, strategy); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("enroll strategy: %w", err)
		}
		return nil
	})
}
