// Package storage defines the key-value persistence contract the session and
// preference stores write through, plus the backends shipped with the module.
// Exactly one backend is chosen at process wiring time; callers never branch
// on the environment at call time.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetItem when no value exists for the key
var ErrNotFound = errors.New("storage: key not found")

// Storage is the capability set the stores consume. Implementations persist
// string blobs keyed by name. Callers treat every failure as best-effort and
// never let one escape past the store boundary.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
