// Package session holds the process-wide authentication session: the current
// user, the token pair, and the derived authenticated flag. A safe subset is
// persisted through an injected storage backend and restored at the next
// launch, which is how a relaunched process becomes authenticated again
// without a fresh login.
package session

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/storage"
	"github.com/jrsteele09/go-app-core/users"
)

// TokenSink receives the access token on every transition that changes the
// token pair. Implemented by *api.Client; the store never lets the sink's
// bearer token drift from its own tokens.
type TokenSink interface {
	SetAccessToken(token string)
}

// Store is the session store. All mutations are synchronous state
// replacements; the persistence side effect is fire-and-forget and never
// blocks or fails a caller.
type Store struct {
	storage    storage.Storage
	sink       TokenSink
	storageKey string
	logger     zerolog.Logger

	mu            sync.RWMutex
	user          *users.User
	tokens        *auth.AuthTokens
	authenticated bool
	loading       bool

	writes    sync.WaitGroup
	writeMu   sync.Mutex
	writeSeq  atomic.Uint64
	lastWrite uint64 // guarded by writeMu
}

// Option configures a Store
type Option func(*Store)

// WithStorageKey overrides the key the snapshot is persisted under
func WithStorageKey(key string) Option {
	return func(s *Store) { s.storageKey = key }
}

// WithLogger replaces the store's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store. The session starts empty with loading=true; callers
// run Restore once at startup to load any persisted session.
func New(st storage.Storage, sink TokenSink, opts ...Option) *Store {
	s := &Store{
		storage:    st,
		sink:       sink,
		storageKey: "auth-storage",
		logger:     zerolog.Nop(),
		loading:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// User returns the current user, nil when unauthenticated
func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Tokens returns the current token pair, nil when unauthenticated
func (s *Store) Tokens() *auth.AuthTokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}

// IsAuthenticated reports whether a login (or restored session) is active
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// IsLoading reports whether the bootstrap restore is still pending
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Login installs the session returned by a successful authentication
// exchange and pushes the access token into the sink
func (s *Store) Login(user users.User, tokens auth.AuthTokens) {
	s.mu.Lock()
	s.user = &user
	s.tokens = &tokens
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()

	s.sink.SetAccessToken(tokens.AccessToken)
	s.persist()
}

// Logout clears the session and reverts the sink to anonymous. Safe to call
// when already logged out.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.tokens = nil
	s.authenticated = false
	s.loading = false
	s.mu.Unlock()

	s.sink.SetAccessToken("")
	s.persist()
}

// SetUser replaces the user record only; tokens and the authenticated flag
// are untouched
func (s *Store) SetUser(user *users.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.persist()
}

// SetTokens replaces the token pair and pushes the new (or cleared) access
// token into the sink; the user and authenticated flag are untouched
func (s *Store) SetTokens(tokens *auth.AuthTokens) {
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()

	if tokens != nil {
		s.sink.SetAccessToken(tokens.AccessToken)
	} else {
		s.sink.SetAccessToken("")
	}
	s.persist()
}

// SetLoading sets the transient loading flag. It is never persisted.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}
