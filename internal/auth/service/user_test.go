package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/store/drivers/sqlite"
	"github.com/opustack/gatekey/pkg/cryptox"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()

	st, err := sqlite.NewStore("file:" + t.TempDir() + "/gatekey_svc_test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &UserService{Store: st}
}

func TestUserServiceCreate(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "A", "a@x.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	u, err := svc.Store.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "A", u.Name)
	require.NoError(t, cryptox.VerifyPassword("hunter22", u.PasswordHash))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, "B", "a@x.com", "other")
		require.ErrorIs(t, err, ErrUserExists)
	})
}

func TestUserServiceUpdate(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "A", "a@x.com", "hunter22")
	require.NoError(t, err)

	name := "Alice"
	phone := "+61400000000"
	require.NoError(t, svc.Update(ctx, id, domain.UserUpdate{Name: &name, Phone: &phone}))

	u, err := svc.Store.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)
	require.Equal(t, "+61400000000", u.Phone)
	require.Equal(t, "a@x.com", u.Email)

	t.Run("missing user", func(t *testing.T) {
		err := svc.Update(ctx, "no-such-id", domain.UserUpdate{Name: &name})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserServiceEnrollStrategy(t *testing.T) {
	t.Parallel()
	svc := newUserService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "A", "a@x.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, svc.EnrollStrategy(ctx, id, domain.StrategyEmail))

	list, err := svc.Store.Strategies().ListByUserID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []domain.Strategy{domain.StrategyEmail}, list)

	t.Run("duplicate enrolment", func(t *testing.T) {
		err := svc.EnrollStrategy(ctx, id, domain.StrategyEmail)
		require.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("missing user", func(t *testing.T) {
		err := svc.EnrollStrategy(ctx, "no-such-id", domain.StrategyPhone)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
