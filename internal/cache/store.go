// Package cache stores rendered documents keyed by content fingerprint and
// render options, so unchanged documents are not re-rendered.
package cache

import (
	"context"
	"time"
)

// Entry is one cached rendering.
type Entry struct {
	Path        string
	Fingerprint string
	OptionsKey  string
	Title       string
	HTML        string
	CreatedAt   time.Time
}

// Store persists rendered documents.
type Store interface {
	// Get returns the live entry for fingerprint and optionsKey. Expired
	// entries are reported as misses.
	Get(ctx context.Context, fingerprint, optionsKey string) (Entry, bool, error)
	// Put inserts or replaces an entry.
	Put(ctx context.Context, e Entry) error
	// InvalidatePath removes every entry rendered from path.
	InvalidatePath(ctx context.Context, path string) (int, error)
	// Prune removes expired entries.
	Prune(ctx context.Context) (int, error)
	Close() error
}
