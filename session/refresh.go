package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-app-core/api"
	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/internal/utils"
)

// InstallRefreshHandler wires the 401 recovery path: on an expired access
// token the client exchanges the store's refresh token for a new pair and the
// store is updated in place. If no refresh token is held or the exchange
// fails, the session is logged out and the original request's error reaches
// the caller.
func InstallRefreshHandler(client *api.Client, store *Store, authAPI *auth.API) {
	client.SetRefreshTokenHandler(func(ctx context.Context) (string, error) {
		refreshToken := utils.Value(store.Tokens()).RefreshToken
		if refreshToken == "" {
			return "", fmt.Errorf("no refresh token held")
		}

		resp, err := authAPI.RefreshToken(ctx, refreshToken)
		if err != nil {
			store.Logout()
			return "", fmt.Errorf("refresh token exchange: %w", err)
		}

		store.SetTokens(&resp.Tokens)
		store.SetUser(utils.Ptr(resp.User))
		return resp.Tokens.AccessToken, nil
	})
}

// Bootstrap restores the persisted session and installs the refresh handler.
// Run once at process start, before any authenticated request is issued.
func Bootstrap(ctx context.Context, client *api.Client, store *Store, authAPI *auth.API) {
	store.Restore(ctx)
	InstallRefreshHandler(client, store, authAPI)
}
