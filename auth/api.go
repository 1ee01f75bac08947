package auth

import (
	"context"

	"github.com/jrsteele09/go-app-core/api"
)

// Route constants for the auth endpoint group
const (
	RouteLogin          = "/auth/login"
	RouteRegister       = "/auth/register"
	RouteLogout         = "/auth/logout"
	RouteRefresh        = "/auth/refresh"
	RouteForgotPassword = "/auth/forgot-password"
	RouteResetPassword  = "/auth/reset-password"
)

// API is the auth endpoint group
type API struct {
	client *api.Client
}

func NewAPI(client *api.Client) *API {
	return &API{client: client}
}

// Login exchanges credentials for a user and token pair. Credentials are
// validated locally first so obviously malformed input never hits the wire.
func (a *API) Login(ctx context.Context, creds LoginCredentials) (*AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := a.client.Post(ctx, RouteLogin, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the initial session
func (a *API) Register(ctx context.Context, creds RegisterCredentials) (*AuthResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	var resp AuthResponse
	if err := a.client.Post(ctx, RouteRegister, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the server-side session. The local session is cleared
// by the caller regardless of the outcome.
func (a *API) Logout(ctx context.Context) error {
	return a.client.Post(ctx, RouteLogout, nil, nil)
}

// RefreshToken exchanges a refresh token for a fresh user and token pair
func (a *API) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var resp AuthResponse
	if err := a.client.Post(ctx, RouteRefresh, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword requests a password-reset email
func (a *API) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	var resp MessageResponse
	if err := a.client.Post(ctx, RouteForgotPassword, map[string]string{"email": email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password using a reset token from the email
func (a *API) ResetPassword(ctx context.Context, token, password string) (*MessageResponse, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	body := map[string]string{"token": token, "password": password}
	var resp MessageResponse
	if err := a.client.Post(ctx, RouteResetPassword, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
