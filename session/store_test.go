package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/session"
	"github.com/jrsteele09/go-app-core/storage"
	"github.com/jrsteele09/go-app-core/users"
)

// fakeSink records every token pushed by the store
type fakeSink struct {
	token  string
	pushes []string
}

func (f *fakeSink) SetAccessToken(token string) {
	f.token = token
	f.pushes = append(f.pushes, token)
}

func testUser() users.User {
	return users.User{
		ID:        "user-1",
		Email:     "john.doe@example.com",
		Name:      "John Doe",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2025, 6, 7, 8, 9, 10, 0, time.UTC),
	}
}

func testTokens() auth.AuthTokens {
	return auth.AuthTokens{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
	}
}

func TestLoginSetsSessionAndSyncsToken(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)

	require.True(t, store.IsLoading())
	require.False(t, store.IsAuthenticated())

	store.Login(testUser(), testTokens())

	require.True(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	require.NotNil(t, store.User())
	require.NotNil(t, store.Tokens())
	require.Equal(t, "access-1", sink.token)
}

func TestLogoutIsIdempotent(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)

	store.Login(testUser(), testTokens())
	store.Logout()

	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
	require.Nil(t, store.Tokens())
	require.Empty(t, sink.token)

	// A second logout produces the same state
	store.Logout()
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
	require.Nil(t, store.Tokens())
}

func TestLogoutWithoutLoginIsSafe(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)

	store.Logout()

	require.False(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	require.Empty(t, sink.token)
}

func TestSetTokensSyncsWithoutTouchingUser(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)
	store.Login(testUser(), testTokens())

	rotated := auth.AuthTokens{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600}
	store.SetTokens(&rotated)

	require.Equal(t, "access-2", sink.token)
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "user-1", store.User().ID)

	store.SetTokens(nil)
	require.Empty(t, sink.token)
	require.True(t, store.IsAuthenticated(), "SetTokens must not alter the authenticated flag")
}

func TestSetUserDoesNotTouchTokens(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)
	store.Login(testUser(), testTokens())
	pushesBefore := len(sink.pushes)

	renamed := testUser()
	renamed.Name = "John Q. Doe"
	store.SetUser(&renamed)

	require.Equal(t, "John Q. Doe", store.User().Name)
	require.Equal(t, "access-1", store.Tokens().AccessToken)
	require.Len(t, sink.pushes, pushesBefore, "SetUser must not push a token")
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	first := session.New(mem, &fakeSink{})
	first.Login(testUser(), testTokens())
	first.Flush()

	// Simulated relaunch: a fresh store over the same storage
	sink := &fakeSink{}
	second := session.New(mem, sink)
	require.True(t, second.IsLoading())

	second.Restore(ctx)

	require.False(t, second.IsLoading())
	require.True(t, second.IsAuthenticated())
	require.Equal(t, testUser(), *second.User())
	require.Equal(t, testTokens(), *second.Tokens())
	require.Equal(t, "access-1", sink.token, "restored access token must reach the sink")
}

func TestRestoreWithEmptyStorage(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(storage.NewMemory(), sink)

	store.Restore(context.Background())

	require.False(t, store.IsLoading())
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
	require.Empty(t, sink.pushes)
}

func TestRestoreDiscardsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.SetItem(ctx, "auth-storage", "{not json"))

	store := session.New(mem, &fakeSink{})
	store.Restore(ctx)

	require.False(t, store.IsLoading())
	require.False(t, store.IsAuthenticated())
}

func TestRestoreDiscardsUnknownSnapshotVersion(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	blob := `{"version":99,"user":{"id":"user-1"},"tokens":{"accessToken":"a"},"isAuthenticated":true}`
	require.NoError(t, mem.SetItem(ctx, "auth-storage", blob))

	store := session.New(mem, &fakeSink{})
	store.Restore(ctx)

	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
}

// failingStorage rejects every operation; the store must swallow it all
type failingStorage struct{}

func (failingStorage) GetItem(context.Context, string) (string, error) {
	return "", context.DeadlineExceeded
}
func (failingStorage) SetItem(context.Context, string, string) error {
	return context.DeadlineExceeded
}
func (failingStorage) RemoveItem(context.Context, string) error {
	return context.DeadlineExceeded
}

func TestPersistenceFailuresNeverEscape(t *testing.T) {
	sink := &fakeSink{}
	store := session.New(failingStorage{}, sink)

	store.Login(testUser(), testTokens())
	store.Flush()
	store.Restore(context.Background())

	// State transitions still applied despite the dead storage
	require.True(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
}

// slowFirstWriteStorage stalls the first SetItem so a later write can finish
// before it
type slowFirstWriteStorage struct {
	*storage.Memory
	mu    sync.Mutex
	calls int
}

func (s *slowFirstWriteStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		time.Sleep(50 * time.Millisecond)
	}
	return s.Memory.SetItem(ctx, key, value)
}

func TestLogoutSnapshotSurvivesSlowLoginWrite(t *testing.T) {
	st := &slowFirstWriteStorage{Memory: storage.NewMemory()}

	store := session.New(st, &fakeSink{})
	store.Login(testUser(), testTokens())
	store.Logout()
	store.Flush()

	// Relaunch: the persisted state must be the logout, not the stale login
	// snapshot whose write finished last
	sink := &fakeSink{}
	relaunched := session.New(st, sink)
	relaunched.Restore(context.Background())

	require.False(t, relaunched.IsAuthenticated())
	require.Nil(t, relaunched.User())
	require.Nil(t, relaunched.Tokens())
	require.Empty(t, sink.token)
}

func TestCustomStorageKey(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	store := session.New(mem, &fakeSink{}, session.WithStorageKey("custom-key"))
	store.Login(testUser(), testTokens())
	store.Flush()

	_, err := mem.GetItem(ctx, "custom-key")
	require.NoError(t, err)
	_, err = mem.GetItem(ctx, "auth-storage")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
