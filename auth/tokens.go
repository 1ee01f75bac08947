package auth

import "github.com/jrsteele09/go-app-core/users"

// AuthTokens is the credential pair returned by login, register, and refresh
type AuthTokens struct {
	AccessToken  string `json:"accessToken"`  // Short-lived bearer credential
	RefreshToken string `json:"refreshToken"` // Opaque credential exchanged for a new pair
	ExpiresIn    int64  `json:"expiresIn"`    // Access token lifetime in seconds
}

// AuthResponse is the wire shape of every successful auth exchange
type AuthResponse struct {
	User   users.User `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// MessageResponse carries the informational message returned by the
// forgot-password and reset-password endpoints
type MessageResponse struct {
	Message string `json:"message"`
}
