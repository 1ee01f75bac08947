package devserver

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/internal/config"
	"github.com/jrsteele09/go-app-core/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// storedRefreshToken tracks an issued refresh token until it is redeemed or
// expires. Tokens rotate: redeeming one invalidates it and issues another.
type storedRefreshToken struct {
	userID    string
	issuedAt  time.Time
	expiresAt time.Time
}

// tokenManager issues JWT access tokens and opaque rotating refresh tokens
type tokenManager struct {
	config config.AuthConfig

	mu      sync.Mutex
	refresh map[string]storedRefreshToken // token -> record
}

func newTokenManager(cfg config.AuthConfig) *tokenManager {
	return &tokenManager{
		config:  cfg,
		refresh: make(map[string]storedRefreshToken),
	}
}

// issue creates a fresh token pair for the user, revoking any refresh token
// previously held (single refresh token per user)
func (m *tokenManager) issue(userID, email string) (auth.AuthTokens, error) {
	now := NowTimeFunc()
	expiry := m.config.GetAccessTokenExpiry()

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iss":   m.config.GetJWTIssuer(),
		"iat":   now.Unix(),
		"exp":   now.Add(expiry).Unix(),
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(m.config.GetJWTSecret()))
	if err != nil {
		return auth.AuthTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := m.newRefreshToken(userID, now)
	if err != nil {
		return auth.AuthTokens{}, err
	}

	return auth.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(expiry.Seconds()),
	}, nil
}

func (m *tokenManager) newRefreshToken(userID string, now time.Time) (string, error) {
	tokenBytes := make([]byte, m.config.GetRefreshTokenLength())
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	tokenStr := hex.EncodeToString(tokenBytes)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Revoke any previous refresh token for this user
	for existing, record := range m.refresh {
		if record.userID == userID {
			delete(m.refresh, existing)
		}
	}

	m.refresh[tokenStr] = storedRefreshToken{
		userID:    userID,
		issuedAt:  now,
		expiresAt: now.Add(m.config.GetRefreshTokenExpiry()),
	}
	return tokenStr, nil
}

// redeem consumes a refresh token and returns the owning user ID. The token
// is deleted whether or not it was still valid.
func (m *tokenManager) redeem(token string) (string, error) {
	m.mu.Lock()
	record, ok := m.refresh[token]
	delete(m.refresh, token)
	m.mu.Unlock()

	if !ok {
		return "", errors.ErrInvalidRefreshToken
	}
	if NowTimeFunc().After(record.expiresAt) {
		return "", errors.ErrRefreshTokenExpired
	}
	return record.userID, nil
}

// revokeUser drops the user's refresh token, ending the session server-side
func (m *tokenManager) revokeUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, record := range m.refresh {
		if record.userID == userID {
			delete(m.refresh, token)
		}
	}
}

// verifyAccess parses and validates an access token, returning the user ID
func (m *tokenManager) verifyAccess(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(m.config.GetJWTSecret()), nil
	}, jwt.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidToken, "parse access token (%s)", err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.ErrInvalidToken
	}
	return sub, nil
}
