package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-app-core/api"
	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/session"
	"github.com/jrsteele09/go-app-core/storage"
)

type refreshTestConfig struct{ url string }

func (c refreshTestConfig) GetAPIURL() string            { return c.url }
func (c refreshTestConfig) GetAPITimeout() time.Duration { return 5 * time.Second }

func TestRefreshHandlerRecoversExpiredSession(t *testing.T) {
	var dataCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "refresh-1", body["refreshToken"])

		json.NewEncoder(w).Encode(auth.AuthResponse{
			User: testUser(),
			Tokens: auth.AuthTokens{
				AccessToken:  "access-2",
				RefreshToken: "refresh-2",
				ExpiresIn:    3600,
			},
		})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&dataCalls, 1) == 1 || r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":"TOKEN_EXPIRED","message":"expired"}`))
			return
		}
		json.NewEncoder(w).Encode(testUser())
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(refreshTestConfig{url: srv.URL})
	store := session.New(storage.NewMemory(), client)
	store.Login(testUser(), testTokens())
	session.InstallRefreshHandler(client, store, auth.NewAPI(client))

	var out map[string]any
	err := client.Get(context.Background(), "/users/me", nil, &out)
	require.NoError(t, err)

	require.Equal(t, "access-2", client.AccessToken())
	require.Equal(t, "access-2", store.Tokens().AccessToken)
	require.Equal(t, "refresh-2", store.Tokens().RefreshToken)
	require.True(t, store.IsAuthenticated())
}

func TestRefreshHandlerLogsOutOnRejectedRefreshToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"INVALID_REFRESH_TOKEN","message":"refresh token revoked"}`))
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"TOKEN_EXPIRED","message":"expired"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(refreshTestConfig{url: srv.URL})
	store := session.New(storage.NewMemory(), client)
	store.Login(testUser(), testTokens())
	session.InstallRefreshHandler(client, store, auth.NewAPI(client))

	err := client.Get(context.Background(), "/users/me", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	require.Equal(t, "TOKEN_EXPIRED", apiErr.Code)

	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.Tokens())
	require.Empty(t, client.AccessToken())
}

func TestRefreshHandlerWithoutStoredTokenFailsFast(t *testing.T) {
	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":"UNAUTHORIZED","message":"no session"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.New(refreshTestConfig{url: srv.URL})
	store := session.New(storage.NewMemory(), client)
	session.InstallRefreshHandler(client, store, auth.NewAPI(client))

	err := client.Get(context.Background(), "/users/me", nil, nil)
	require.Error(t, err)
	require.EqualValues(t, 0, atomic.LoadInt32(&refreshCalls), "no wire refresh without a stored refresh token")
}

func TestBootstrapRestoresAndInstallsHandler(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	seed := session.New(mem, &fakeSink{})
	seed.Login(testUser(), testTokens())
	seed.Flush()

	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	client := api.New(refreshTestConfig{url: srv.URL})
	store := session.New(mem, client)
	session.Bootstrap(ctx, client, store, auth.NewAPI(client))

	require.True(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	require.Equal(t, "access-1", client.AccessToken())
}
