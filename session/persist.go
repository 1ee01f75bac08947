package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/go-app-core/auth"
	"github.com/jrsteele09/go-app-core/storage"
	"github.com/jrsteele09/go-app-core/users"
)

// snapshotVersion tags the persisted blob. A snapshot with any other version
// fails to restore and is treated the same as no prior session.
const snapshotVersion = 1

const persistTimeout = 5 * time.Second

// snapshot is the persisted subset of the session. The loading flag is
// transient and never written.
type snapshot struct {
	Version         int              `json:"version"`
	User            *users.User      `json:"user"`
	Tokens          *auth.AuthTokens `json:"tokens"`
	IsAuthenticated bool             `json:"isAuthenticated"`
}

// Restore loads the persisted snapshot, if any, and installs it. A missing,
// corrupt, or version-mismatched blob all converge to an empty session. The
// loading flag is cleared exactly once, after the restore attempt completes,
// and a restored access token is pushed into the sink before returning.
func (s *Store) Restore(ctx context.Context) {
	defer s.SetLoading(false)

	raw, err := s.storage.GetItem(ctx, s.storageKey)
	if err != nil {
		if err != storage.ErrNotFound {
			s.logger.Debug().Err(err).Msg("session restore failed")
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.logger.Debug().Err(err).Msg("discarding undecodable session snapshot")
		return
	}
	if snap.Version != snapshotVersion {
		s.logger.Debug().Int("version", snap.Version).Msg("discarding session snapshot with unknown version")
		return
	}

	s.mu.Lock()
	s.user = snap.User
	s.tokens = snap.Tokens
	s.authenticated = snap.IsAuthenticated
	s.mu.Unlock()

	if snap.Tokens != nil && snap.Tokens.AccessToken != "" {
		s.sink.SetAccessToken(snap.Tokens.AccessToken)
	}
}

// persist writes the current snapshot in the background. Failures are
// swallowed; persistence is best-effort by contract.
//
// Writes carry a sequence number taken while the snapshot is read, and a
// snapshot superseded by a later one is dropped rather than written. Without
// this, back-to-back mutations could land out of order and a stale snapshot
// (a login overwriting the following logout) would survive on disk.
func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{
		Version:         snapshotVersion,
		User:            s.user,
		Tokens:          s.tokens,
		IsAuthenticated: s.authenticated,
	}
	seq := s.writeSeq.Add(1)
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Debug().Err(err).Msg("session snapshot encode failed")
		return
	}

	s.writes.Add(1)
	go func() {
		defer s.writes.Done()
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if seq <= s.lastWrite {
			return
		}
		s.lastWrite = seq

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.storage.SetItem(ctx, s.storageKey, string(data)); err != nil {
			s.logger.Debug().Err(err).Msg("session snapshot write failed")
		}
	}()
}

// Flush blocks until all pending snapshot writes have completed. Call it
// before process exit; tests use it to make persistence deterministic.
func (s *Store) Flush() {
	s.writes.Wait()
}
