// Package store holds the key-value persistence layer: the Adapter contract
// the engine depends on, the storage key namespace, JSON helpers, and the
// diskv, SQLite and in-memory adapters.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Adapter is the key-value contract of the platform storage. Values are
// UTF-8 text; callers own serialization.
type Adapter interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	MultiSet(ctx context.Context, entries map[string]string) error
	MultiRemove(ctx context.Context, keys ...string) error
	// Keys lists every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

const (
	// BackendDiskv stores one file per key below the base path.
	BackendDiskv = "diskv"
	// BackendSQLite stores every key in a single SQLite table.
	BackendSQLite = "sqlite"

	sqliteFileName = "anchor.sqlite"
)

// Load opens the Adapter selected by cfg. A nil cfg loads the default config.
func Load(cfg Config) (Adapter, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	switch cfg.Backend() {
	case BackendDiskv, "":
		return OpenDiskv(basePath, cfg.CacheSize()), nil
	case BackendSQLite:
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure base path: %w", err)
		}
		return OpenSQLite(filepath.Join(basePath, sqliteFileName))
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
}
