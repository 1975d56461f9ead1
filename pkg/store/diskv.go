package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/multierr"
)

// Diskv is an Adapter that keeps one file per key below a base path.
type Diskv struct {
	d        *diskv.Diskv
	basePath string
}

var _ Adapter = (*Diskv)(nil)

// OpenDiskv returns a diskv-backed Adapter rooted at basePath. Writes go
// through a sibling temp directory so a failed write never leaves a
// truncated value behind.
func OpenDiskv(basePath string, cacheSize uint64) *Diskv {
	basePath = filepath.Clean(basePath)
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(filepath.Dir(basePath), "."+filepath.Base(basePath)+".tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSize,
	}), basePath: basePath}
}

// BasePath is the directory holding the key files.
func (p *Diskv) BasePath() string {
	return p.basePath
}

func (p *Diskv) Get(_ context.Context, key string) (string, bool, error) {
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

func (p *Diskv) Set(_ context.Context, key, value string) error {
	return p.d.Write(key, []byte(value))
}

func (p *Diskv) Remove(_ context.Context, key string) error {
	if err := p.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (p *Diskv) Clear(_ context.Context) error {
	if err := p.d.EraseAll(); err != nil {
		return err
	}
	return os.MkdirAll(p.basePath, 0o755)
}

// MultiSet writes entries in key order and stops at the first failure. Keys
// written before the failure keep their new value.
func (p *Diskv) MultiSet(ctx context.Context, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := p.Set(ctx, key, entries[key]); err != nil {
			return fmt.Errorf("store: write %s: %w", key, err)
		}
	}
	return nil
}

// MultiRemove attempts every key and reports all failures together.
func (p *Diskv) MultiRemove(ctx context.Context, keys ...string) error {
	var errs error
	for _, key := range keys {
		if err := p.Remove(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("store: remove %s: %w", key, err))
		}
	}
	return errs
}

func (p *Diskv) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	for key := range p.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *Diskv) Close() error {
	return nil
}

// keyToPathTransform stores a key under its namespace directory. The file
// name is the whole key in unpadded base64url so ':' and '@' never reach the
// filesystem and flat and phased keys of one scope cannot collide.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{namespace(key)},
		FileName: base64.RawURLEncoding.EncodeToString([]byte(key)),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return keyForFile(pathKey.FileName)
}

func keyForFile(name string) string {
	key, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return name
	}
	return string(key)
}
