// Package prefs holds non-sensitive UI preferences: theme, drawer state, and
// the current toast. Only the theme survives a relaunch; it is persisted
// through the plain (non credential-grade) storage backend.
package prefs

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-app-core/storage"
)

// Theme selects the colour scheme
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ToastType classifies the current toast message
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Toast is a transient message shown to the user
type Toast struct {
	Message string
	Type    ToastType
}

const snapshotVersion = 1

const persistTimeout = 5 * time.Second

// snapshot persists the theme only; everything else is transient UI state
type snapshot struct {
	Version int   `json:"version"`
	Theme   Theme `json:"theme"`
}

// Store is the UI preference store
type Store struct {
	storage    storage.Storage
	storageKey string
	logger     zerolog.Logger

	mu         sync.RWMutex
	theme      Theme
	drawerOpen bool
	toast      *Toast

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

func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage:    st,
		storageKey: "ui-storage",
		logger:     zerolog.Nop(),
		theme:      ThemeSystem,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Theme returns the selected theme
func (s *Store) Theme() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme selects a theme and persists the choice
func (s *Store) SetTheme(theme Theme) {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	s.persist()
}

// IsDrawerOpen reports the navigation drawer state
func (s *Store) IsDrawerOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drawerOpen
}

// ToggleDrawer flips the navigation drawer state
func (s *Store) ToggleDrawer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = !s.drawerOpen
}

// SetDrawerOpen sets the navigation drawer state
func (s *Store) SetDrawerOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = open
}

// Toast returns the current toast, nil when none is showing
func (s *Store) Toast() *Toast {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toast
}

// ShowToast replaces the current toast
func (s *Store) ShowToast(message string, toastType ToastType) {
	if toastType == "" {
		toastType = ToastInfo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = &Toast{Message: message, Type: toastType}
}

// HideToast clears the current toast
func (s *Store) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = nil
}

// Restore loads the persisted theme. A missing or undecodable snapshot
// leaves the defaults in place.
func (s *Store) Restore(ctx context.Context) {
	raw, err := s.storage.GetItem(ctx, s.storageKey)
	if err != nil {
		if err != storage.ErrNotFound {
			s.logger.Debug().Err(err).Msg("prefs restore failed")
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil || snap.Version != snapshotVersion {
		s.logger.Debug().Msg("discarding undecodable prefs snapshot")
		return
	}

	s.mu.Lock()
	s.theme = snap.Theme
	s.mu.Unlock()
}

// persist writes the current snapshot in the background. Writes carry a
// sequence number so a snapshot superseded by a later one is dropped instead
// of landing out of order.
func (s *Store) persist() {
	s.mu.RLock()
	snap := snapshot{Version: snapshotVersion, Theme: s.theme}
	seq := s.writeSeq.Add(1)
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
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
			s.logger.Debug().Err(err).Msg("prefs snapshot write failed")
		}
	}()
}

// Flush blocks until all pending snapshot writes have completed
func (s *Store) Flush() {
	s.writes.Wait()
}
