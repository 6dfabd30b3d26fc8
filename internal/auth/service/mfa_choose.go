package service

import (
	"context"
	"errors"
	"slices"

	"github.com/opustack/gatekey/internal/auth/cache"
	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/pkg/slogx"
)

var (
	// ErrChallengeNotFound reports an unresolvable challenge hash (never
	// issued, expired, or consumed).
	ErrChallengeNotFound = errors.New("not_found")

	// ErrStrategyNotListed reports a chosen strategy outside the set bound
	// to the challenge.
	ErrStrategyNotListed = errors.New("strategy_not_listed")

	// ErrDependency reports any infrastructure failure (cache, store,
	// delivery provider), uniformly, as a retryable condition.
	ErrDependency = errors.New("dependency_error")
)

// MFAChooseService resolves a pending challenge, validates the chosen
// strategy, issues a one-time code and dispatches it. Stateless; safe for
// concurrent use. Retrying the same (hash, strategy) is safe: each call
// produces a fresh code under a fresh hash, and superseded codes age out in
// the code store.
type MFAChooseService struct {
	Challenges ChallengeResolver
	Codes      CodeIssuer
	Notifier   CodeNotifier
}

// Choose triggers code delivery for the chosen strategy and returns the new
// code-verification hash. The code itself never appears in the return value;
// it travels only through the notifier. Once any step fails no later step
// runs.
func (s *MFAChooseService) Choose(ctx context.Context, hash string, strategy domain.Strategy) (string, error) {
	l := slogx.FromContext(ctx)

	challenge, err := s.Challenges.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return "", ErrChallengeNotFound
		}
		l.Error("choose failed resolving challenge", "err", err)
		return "", ErrDependency
	}

	if !slices.Contains(challenge.Strategies, strategy) {
		return "", ErrStrategyNotListed
	}

	code, err := s.Codes.CreateCodeForStrategy(ctx, challenge.UserID, strategy)
	if err != nil {
		l.Error("choose failed issuing code", "err", err)
		return "", ErrDependency
	}

	if err := s.Notifier.SendCodeForUser(ctx, challenge.UserID, code.Hash); err != nil {
		l.Error("choose failed dispatching code", "err", err)
		return "", ErrDependency
	}

	return code.Hash, nil
}
