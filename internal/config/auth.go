package config

import "time"

// AuthConfig holds the dev server's token issuance settings.
type AuthConfig interface {
	GetJWTSecret() string
	GetJWTIssuer() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshTokenLength() int
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "dev-only-insecure-secret")
}

func (Auth) GetJWTIssuer() string {
	return GetEnv("JWT_ISSUER", "go-app-core-devserver")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}

func (Auth) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}
