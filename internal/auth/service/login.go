package service

import (
	"context"
	"errors"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/pkg/slogx"
)

// ErrWrongCredential is the only login failure callers ever see. Wrong
// password, unknown account and infrastructure failures all collapse into it
// so a caller cannot probe which emails exist.
var ErrWrongCredential = errors.New("wrong_credential")

// LoginService authenticates a credential and decides between issuing a
// session token and opening a step-up challenge. It is stateless and safe
// for concurrent use.
type LoginService struct {
	Users      CredentialFinder
	Strategies StrategyFinder
	Challenges ChallengeCreator
	Tokens     TokenIssuer
}

// Login authenticates email/password. With no enrolled strategies it returns
// a Credential carrying a fresh session token; with at least one it returns
// an MFAChoose challenge instead. Exactly one of the two creation calls
// (token or challenge) runs per successful credential check, and none on
// failure.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Users.FindByEmailAndPassword(ctx, email, password)
	if err != nil {
		// Detail goes to the log only. The caller learns nothing beyond
		// "wrong credential".
		l.Info("login rejected", "err", err)
		return domain.LoginResult{}, ErrWrongCredential
	}

	strategies, err := s.Strategies.FindByUserID(ctx, user.ID)
	if err != nil {
		l.Error("login failed listing strategies", "user_id", user.ID, "err", err)
		return domain.LoginResult{}, ErrWrongCredential
	}

	if len(strategies) == 0 {
		tok, err := s.Tokens.Create(ctx, user)
		if err != nil {
			l.Error("login failed issuing session token", "user_id", user.ID, "err", err)
			return domain.LoginResult{}, ErrWrongCredential
		}
		return domain.LoginResult{
			Kind: domain.LoginResultCredential,
			Credential: &domain.Credential{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
				Token: tok,
			},
		}, nil
	}

	hash, err := s.Challenges.Create(ctx, user.ID, strategies)
	if err != nil {
		l.Error("login failed creating challenge", "user_id", user.ID, "err", err)
		return domain.LoginResult{}, ErrWrongCredential
	}

	return domain.LoginResult{
		Kind: domain.LoginResultMFAChoose,
		Challenge: &domain.MFAChoose{
			Hash:       hash,
			Strategies: strategies,
		},
	}, nil
}
