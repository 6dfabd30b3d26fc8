package service

import (
	"context"

	"github.com/opustack/gatekey/internal/auth/domain"
)

// Driven ports consumed by the orchestration services. Concrete adapters
// (store-backed repos, Redis caches, the JWT issuer, the notifier) are
// injected at construction; the services never see anything but these
// interfaces.

// CredentialFinder authenticates an email/password pair.
type CredentialFinder interface {
	FindByEmailAndPassword(ctx context.Context, email, password string) (domain.User, error)
}

// StrategyFinder returns a user's enrolled second-factor strategies.
type StrategyFinder interface {
	FindByUserID(ctx context.Context, userID string) ([]domain.Strategy, error)
}

// ChallengeCreator stores a pending step-up challenge and returns its opaque
// hash.
type ChallengeCreator interface {
	Create(ctx context.Context, userID string, strategies []domain.Strategy) (string, error)
}

// TokenIssuer mints an opaque session token for an authenticated user.
type TokenIssuer interface {
	Create(ctx context.Context, u domain.User) (string, error)
}

// ChallengeResolver resolves a challenge hash back to its record.
type ChallengeResolver interface {
	FindByHash(ctx context.Context, hash string) (domain.MFAChallenge, error)
}

// CodeIssuer creates a one-time code record for the chosen strategy and
// returns its fresh hash together with the code.
type CodeIssuer interface {
	CreateCodeForStrategy(ctx context.Context, userID string, s domain.Strategy) (domain.MFACode, error)
}

// CodeNotifier delivers the code behind hash to the user out of band.
type CodeNotifier interface {
	SendCodeForUser(ctx context.Context, userID, hash string) error
}
