// Package maintenance holds operations that span the whole store: resetting
// user content to the shipped defaults and one-shot hint flags.
package maintenance

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"tableflip.dev/anchor/pkg/store"
)

type Service struct {
	store store.Adapter
	log   *zap.Logger
}

// New returns a Service over a. A nil log discards output.
func New(a store.Adapter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: a, log: log}
}

// ResetAllToDefaults removes every phrase overlay, the hidden-mode set and
// the custom-mode list. Preferences and hint flags are kept.
//
// The custom-mode list is removed last and only once the hidden-mode set is
// gone, so a failure part way never leaves a list naming a deleted custom
// mode. Failures are collected into one error.
func (s *Service) ResetAllToDefaults(ctx context.Context) error {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return fmt.Errorf("maintenance: reset: %w", err)
	}

	var overlays []string
	for _, k := range keys {
		if store.IsOverlayKey(k) {
			overlays = append(overlays, k)
		}
	}

	var errs error
	if len(overlays) > 0 {
		errs = multierr.Append(errs, s.store.MultiRemove(ctx, overlays...))
	}
	if err := s.store.Remove(ctx, store.HiddenModesKey); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		errs = multierr.Append(errs, s.store.Remove(ctx, store.CustomModesKey))
	}
	if errs != nil {
		return fmt.Errorf("maintenance: reset: %w", errs)
	}

	s.log.Info("reset to defaults", zap.Int("overlays", len(overlays)))
	return nil
}

// HasSeenNavigationHint reports whether the navigation hint was shown. A
// missing or unreadable flag counts as unseen.
func (s *Service) HasSeenNavigationHint(ctx context.Context) bool {
	var seen bool
	if _, err := store.ReadJSON(ctx, s.store, store.NavigationHintKey, &seen); err != nil {
		s.log.Warn("reading navigation hint failed", zap.String("key", store.NavigationHintKey), zap.Error(err))
		return false
	}
	return seen
}

func (s *Service) MarkNavigationHintSeen(ctx context.Context) error {
	if err := store.WriteJSON(ctx, s.store, store.NavigationHintKey, true); err != nil {
		return fmt.Errorf("maintenance: mark hint: %w", err)
	}
	return nil
}
