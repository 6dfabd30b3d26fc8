package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/store"
)

// Recording fakes for the login ports.

type fakeCredentialFinder struct {
	user  domain.User
	err   error
	calls int

	gotEmail    string
	gotPassword string
}

func (f *fakeCredentialFinder) FindByEmailAndPassword(ctx context.Context, email, password string) (domain.User, error) {
	f.calls++
	f.gotEmail = email
	f.gotPassword = password
	if f.err != nil {
		return domain.User{}, f.err
	}
	return f.user, nil
}

type fakeStrategyFinder struct {
	strategies []domain.Strategy
	err        error
	calls      int
	gotUserID  string
}

func (f *fakeStrategyFinder) FindByUserID(ctx context.Context, userID string) ([]domain.Strategy, error) {
	f.calls++
	f.gotUserID = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.strategies, nil
}

type fakeChallengeCreator struct {
	hash          string
	err           error
	calls         int
	gotUserID     string
	gotStrategies []domain.Strategy
}

func (f *fakeChallengeCreator) Create(ctx context.Context, userID string, strategies []domain.Strategy) (string, error) {
	f.calls++
	f.gotUserID = userID
	f.gotStrategies = strategies
	if f.err != nil {
		return "", f.err
	}
	return f.hash, nil
}

type fakeTokenIssuer struct {
	token   string
	err     error
	calls   int
	gotUser domain.User
}

func (f *fakeTokenIssuer) Create(ctx context.Context, u domain.User) (string, error) {
	f.calls++
	f.gotUser = u
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func TestLoginWithoutEnrolledStrategies(t *testing.T) {
	t.Parallel()

	user := domain.User{ID: "u1", Name: "A", Email: "a@x.com"}
	users := &fakeCredentialFinder{user: user}
	strategies := &fakeStrategyFinder{strategies: nil}
	challenges := &fakeChallengeCreator{hash: "h1"}
	tokens := &fakeTokenIssuer{token: "tok1"}

	svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
	result, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)

	require.Equal(t, domain.LoginResultCredential, result.Kind)
	require.Nil(t, result.Challenge)
	require.Equal(t, &domain.Credential{
		ID:    "u1",
		Name:  "A",
		Email: "a@x.com",
		Token: "tok1",
	}, result.Credential)

	require.Equal(t, 1, users.calls)
	require.Equal(t, "a@x.com", users.gotEmail)
	require.Equal(t, "pw", users.gotPassword)
	require.Equal(t, 1, strategies.calls)
	require.Equal(t, "u1", strategies.gotUserID)
	require.Equal(t, 1, tokens.calls)
	require.Equal(t, user, tokens.gotUser)
	require.Zero(t, challenges.calls, "challenge creator must not run on direct login")
}

func TestLoginWithEnrolledStrategies(t *testing.T) {
	t.Parallel()

	user := domain.User{ID: "u1", Name: "A", Email: "a@x.com"}
	strategyList := []domain.Strategy{domain.StrategyEmail}

	users := &fakeCredentialFinder{user: user}
	strategies := &fakeStrategyFinder{strategies: strategyList}
	challenges := &fakeChallengeCreator{hash: "h1"}
	tokens := &fakeTokenIssuer{token: "tok1"}

	svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
	result, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)

	require.Equal(t, domain.LoginResultMFAChoose, result.Kind)
	require.Nil(t, result.Credential)
	require.Equal(t, &domain.MFAChoose{Hash: "h1", Strategies: strategyList}, result.Challenge)

	require.Equal(t, 1, challenges.calls)
	require.Equal(t, "u1", challenges.gotUserID)
	require.Equal(t, strategyList, challenges.gotStrategies)
	require.Zero(t, tokens.calls, "token issuer must not run when a challenge is opened")
}

func TestLoginCredentialFailureCollapsesToWrongCredential(t *testing.T) {
	t.Parallel()

	// Wrong password, unknown account and infrastructure failures must be
	// indistinguishable to the caller.
	cases := map[string]error{
		"wrong password": errors.New("repo: wrong password"),
		"unknown email":  store.ErrNotFound,
		"store down":     errors.New("repo: find user by email: disk I/O error"),
	}

	for name, cause := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			users := &fakeCredentialFinder{err: cause}
			strategies := &fakeStrategyFinder{}
			challenges := &fakeChallengeCreator{}
			tokens := &fakeTokenIssuer{}

			svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
			_, err := svc.Login(context.Background(), "a@x.com", "pw")
			require.ErrorIs(t, err, ErrWrongCredential)

			require.Equal(t, 1, users.calls)
			require.Zero(t, strategies.calls)
			require.Zero(t, challenges.calls)
			require.Zero(t, tokens.calls)
		})
	}
}

func TestLoginStrategyLookupFailure(t *testing.T) {
	t.Parallel()

	users := &fakeCredentialFinder{user: domain.User{ID: "u1"}}
	strategies := &fakeStrategyFinder{err: errors.New("db gone")}
	challenges := &fakeChallengeCreator{}
	tokens := &fakeTokenIssuer{}

	svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrWrongCredential)

	require.Zero(t, challenges.calls)
	require.Zero(t, tokens.calls)
}

func TestLoginTokenIssueFailure(t *testing.T) {
	t.Parallel()

	users := &fakeCredentialFinder{user: domain.User{ID: "u1"}}
	strategies := &fakeStrategyFinder{}
	challenges := &fakeChallengeCreator{}
	tokens := &fakeTokenIssuer{err: errors.New("signer broken")}

	svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrWrongCredential)
	require.Zero(t, challenges.calls)
}

func TestLoginChallengeCreateFailure(t *testing.T) {
	t.Parallel()

	users := &fakeCredentialFinder{user: domain.User{ID: "u1"}}
	strategies := &fakeStrategyFinder{strategies: []domain.Strategy{domain.StrategyPhone}}
	challenges := &fakeChallengeCreator{err: errors.New("cache down")}
	tokens := &fakeTokenIssuer{}

	svc := &LoginService{Users: users, Strategies: strategies, Challenges: challenges, Tokens: tokens}
	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.ErrorIs(t, err, ErrWrongCredential)
	require.Zero(t, tokens.calls)
}
