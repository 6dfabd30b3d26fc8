package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/opustack/gatekey/internal/auth/cache"
	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/notify"
	"github.com/opustack/gatekey/internal/auth/repo"
	"github.com/opustack/gatekey/internal/auth/service"
	"github.com/opustack/gatekey/internal/auth/store/drivers/sqlite"
	"github.com/opustack/gatekey/internal/auth/token"
	"github.com/opustack/gatekey/pkg/jwtx"
)

// newTestRouter wires the full stack against a temp sqlite file and an
// in-process redis so handler tests exercise the real adapters.
func newTestRouter(t *testing.T) (*Router, *miniredis.Miniredis) {
	t.Helper()

	st, err := sqlite.NewStore("file:" + t.TempDir() + "/gatekey_http_test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	signer, err := jwtx.GenerateSignerEdDSA("test-key")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := &repo.UserRepo{Store: st}
	strategies := &repo.StrategyRepo{Store: st}
	challenges := cache.NewChallengeCache(rdb, time.Minute)
	codes := cache.NewCodeCache(rdb, time.Minute)
	issuer := &token.Issuer{Signer: signer, Issuer: "gatekey-test"}
	notifier := &notify.Notifier{
		Users: st.Users(),
		Codes: codes,
		Email: &notify.LogEmailSender{Logger: logger},
		SMS:   &notify.LogSMSSender{Logger: logger},
	}

	r := NewRouter("test", st, rdb, logger)
	r.LoginService = &service.LoginService{
		Users:      users,
		Strategies: strategies,
		Challenges: challenges,
		Tokens:     issuer,
	}
	r.ChooseService = &service.MFAChooseService{
		Challenges: challenges,
		Codes:      codes,
		Notifier:   notifier,
	}
	r.UserService = &service.UserService{Store: st}
	r.ApplyRoutes()

	return r, mr
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestLoginEndpointDirectCredential(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/users", map[string]string{
		"name": "A", "email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[createUserResponse](t, rec)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[loginResponse](t, rec)
	require.Equal(t, domain.LoginResultCredential, resp.Kind)
	require.Nil(t, resp.Challenge)
	require.Equal(t, created.ID, resp.Credential.ID)
	require.Equal(t, "a@x.com", resp.Credential.Email)
	require.NotEmpty(t, resp.Credential.Token)
}

func TestLoginEndpointWrongCredential(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/users", map[string]string{
		"name": "A", "email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Bad password and unknown account must produce identical responses.
	for name, creds := range map[string]map[string]string{
		"bad password":  {"email": "a@x.com", "password": "nope"},
		"unknown email": {"email": "b@x.com", "password": "hunter22"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", creds)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeBody[map[string]string](t, rec)
			require.Equal(t, "wrong_credential", body["error"])
		})
	}
}

func TestLoginThenChooseFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	ctx := context.Background()

	id, err := r.UserService.Create(ctx, "A", "a@x.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, r.UserService.EnrollStrategy(ctx, id, domain.StrategyEmail))

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/login", map[string]string{
		"email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[loginResponse](t, rec)
	require.Equal(t, domain.LoginResultMFAChoose, resp.Kind)
	require.Nil(t, resp.Credential, "no session token may leak while a step-up is pending")
	require.NotEmpty(t, resp.Challenge.Hash)
	require.Equal(t, []domain.Strategy{domain.StrategyEmail}, resp.Challenge.Strategies)

	t.Run("choose listed strategy", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/mfa/choose", map[string]string{
			"hash": resp.Challenge.Hash, "strategy": "EMAIL",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		out := decodeBody[chooseResponse](t, rec)
		require.NotEmpty(t, out.Hash)
		require.NotEqual(t, resp.Challenge.Hash, out.Hash)
	})

	t.Run("choose unlisted strategy", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/mfa/choose", map[string]string{
			"hash": resp.Challenge.Hash, "strategy": "PHONE",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		require.Equal(t, "strategy_not_listed", body["error"])
	})

	t.Run("choose unknown hash", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/auth/mfa/choose", map[string]string{
			"hash": "does-not-exist", "strategy": "EMAIL",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody[map[string]string](t, rec)
		require.Equal(t, "not_found", body["error"])
	})
}

func TestChooseEndpointDependencyFailure(t *testing.T) {
	r, mr := newTestRouter(t)

	mr.Close()

	rec := doJSON(t, r, http.MethodPost, "/v1/auth/mfa/choose", map[string]string{
		"hash": "h1", "strategy": "EMAIL",
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "dependency_error", body["error"])
}

func TestUsersEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/v1/users", map[string]string{
		"name": "A", "email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[createUserResponse](t, rec)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/users", map[string]string{
			"name": "B", "email": "a@x.com", "password": "other",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("patch profile", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPatch, "/v1/users/"+created.ID, map[string]string{
			"phone": "+61400000000",
		})
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("enroll strategy", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/v1/users/"+created.ID+"/mfa", map[string]string{
			"strategy": "PHONE",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/v1/users", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		users := decodeBody[[]userResponse](t, rec)
		require.Len(t, users, 1)
		require.Equal(t, "+61400000000", users[0].Phone)
	})
}

func TestHealthEndpoints(t *testing.T) {
	r, mr := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/livez", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	mr.Close()
	rec = doJSON(t, r, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	health := decodeBody[healthResponse](t, rec)
	require.Equal(t, "degraded", health.Status)
}
