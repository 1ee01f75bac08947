package users

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-app-core/api"
)

// ProfileUpdate carries the fields of a partial profile update; nil fields
// are omitted from the request body and left untouched by the server
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
	Website  *string `json:"website,omitempty"`
}

// API is the user endpoint group. All calls require an authenticated client
// except Profile, which is public.
type API struct {
	client *api.Client
}

func NewAPI(client *api.Client) *API {
	return &API{client: client}
}

// Me fetches the authenticated user's own record
func (a *API) Me(ctx context.Context) (*User, error) {
	var user User
	if err := a.client.Get(ctx, "/users/me", url.Values{}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Profile fetches another user's public profile
func (a *API) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	var profile UserProfile
	if err := a.client.Get(ctx, "/users/"+url.PathEscape(userID), url.Values{}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial update to the authenticated user's profile
func (a *API) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserProfile, error) {
	var profile UserProfile
	if err := a.client.Patch(ctx, "/users/me", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateAvatar replaces the authenticated user's avatar URL
func (a *API) UpdateAvatar(ctx context.Context, avatarURL string) (*User, error) {
	var user User
	body := map[string]string{"avatar": avatarURL}
	if err := a.client.Patch(ctx, "/users/me/avatar", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount permanently removes the authenticated user's account
func (a *API) DeleteAccount(ctx context.Context) error {
	return a.client.Delete(ctx, "/users/me", nil)
}
