package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/anchor/pkg/store"
)

// ErrSameStore is returned when a migration names the service's own adapter
// as the destination.
var ErrSameStore = errors.New("app: migration source and destination are the same")

// MigrateTo copies every key of the service's adapter into dst in one batch
// and returns the number of keys copied. Values are copied verbatim, corrupt
// ones included. With replace set dst is cleared first; otherwise keys only
// present in dst are kept.
func (s *Service) MigrateTo(ctx context.Context, dst store.Adapter, replace bool) (int, error) {
	if dst == nil || dst == s.Store {
		return 0, ErrSameStore
	}
	keys, err := s.Store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("app: migrate: %w", err)
	}

	entries := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := s.Store.Get(ctx, key)
		if err != nil {
			return 0, fmt.Errorf("app: migrate: %w", err)
		}
		if !ok {
			// Removed since Keys.
			continue
		}
		entries[key] = value
	}

	if replace {
		if err := dst.Clear(ctx); err != nil {
			return 0, fmt.Errorf("app: migrate: clear destination: %w", err)
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := dst.MultiSet(ctx, entries); err != nil {
		return 0, fmt.Errorf("app: migrate: %w", err)
	}
	s.log.Info("migrated store", zap.Int("keys", len(entries)), zap.Bool("replace", replace))
	return len(entries), nil
}
