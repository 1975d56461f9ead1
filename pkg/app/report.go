package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/prefs"
	"tableflip.dev/anchor/pkg/store"
)

// ScopeSummary counts the overlay entries stored for one scope.
type ScopeSummary struct {
	Scope   store.Scope
	User    int
	Hidden  int
	Corrupt bool
}

// ModeSummary groups the overlay scopes of one mode. Orphaned is set when
// the mode is neither built in nor a current custom mode, which happens after
// a custom mode is deleted.
type ModeSummary struct {
	Mode     string
	Hidden   bool
	Orphaned bool
	Scopes   []ScopeSummary
}

// ReportResult describes everything the user changed on top of the shipped
// content.
type ReportResult struct {
	Modes       []ModeSummary
	CustomModes int
	HiddenModes int
	Theme       prefs.Theme
	Language    string
	HintSeen    bool
	// Keys is the number of overlay keys in storage.
	Keys int
}

const reportReaders = 8

// Report walks the overlay keys in storage and summarizes them by mode,
// built-in modes first in display order.
func (s *Service) Report(ctx context.Context) (ReportResult, error) {
	keys, err := s.Store.Keys(ctx)
	if err != nil {
		return ReportResult{}, fmt.Errorf("app: report: %w", err)
	}
	overlays := slices.DeleteFunc(keys, func(k string) bool { return !store.IsOverlayKey(k) })

	type count struct {
		n       int
		corrupt bool
	}
	counts := make([]count, len(overlays))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reportReaders)
	for i, key := range overlays {
		g.Go(func() error {
			n, err := countList(gctx, s.Store, key)
			if errors.Is(err, store.ErrCorrupt) {
				counts[i] = count{corrupt: true}
				return nil
			}
			counts[i] = count{n: n}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return ReportResult{}, fmt.Errorf("app: report: %w", err)
	}

	custom := s.Modes.CustomModes(ctx)
	hidden := s.Modes.HiddenModes(ctx)
	known := func(id string) bool {
		if _, ok := mode.ParseBuiltIn(id); ok {
			return true
		}
		return slices.ContainsFunc(custom, func(c mode.Custom) bool { return c.ID == id })
	}

	var order []store.Scope
	sums := make(map[store.Scope]*ScopeSummary)
	for i, key := range overlays {
		scope, ok := store.ParseScope(key)
		if !ok {
			continue
		}
		sum, found := sums[scope]
		if !found {
			sum = &ScopeSummary{Scope: scope}
			sums[scope] = sum
			order = append(order, scope)
		}
		if key == scope.UserPhrasesKey() {
			sum.User = counts[i].n
		} else {
			sum.Hidden = counts[i].n
		}
		sum.Corrupt = sum.Corrupt || counts[i].corrupt
	}

	byMode := make(map[string]*ModeSummary)
	for _, scope := range order {
		ms, found := byMode[scope.Mode]
		if !found {
			ms = &ModeSummary{
				Mode:     scope.Mode,
				Hidden:   slices.Contains(hidden, scope.Mode),
				Orphaned: !known(scope.Mode),
			}
			byMode[scope.Mode] = ms
		}
		ms.Scopes = append(ms.Scopes, *sums[scope])
	}

	result := ReportResult{
		CustomModes: len(custom),
		HiddenModes: len(hidden),
		Theme:       s.Prefs.Theme(ctx),
		Language:    s.Prefs.Language(ctx),
		HintSeen:    s.Maintenance.HasSeenNavigationHint(ctx),
		Keys:        len(overlays),
	}
	for _, b := range mode.BuiltIns() {
		if ms, ok := byMode[string(b)]; ok {
			result.Modes = append(result.Modes, *ms)
			delete(byMode, string(b))
		}
	}
	rest := make([]string, 0, len(byMode))
	for id := range byMode {
		rest = append(rest, id)
	}
	slices.Sort(rest)
	for _, id := range rest {
		result.Modes = append(result.Modes, *byMode[id])
	}
	return result, nil
}

// countList returns the length of the overlay list stored at key.
func countList(ctx context.Context, a store.Adapter, key string) (int, error) {
	if scope, ok := store.ParseScope(key); ok && key == scope.UserPhrasesKey() {
		list, err := store.ReadList[phrase.Phrase](ctx, a, key)
		return len(list), err
	}
	list, err := store.ReadList[string](ctx, a, key)
	return len(list), err
}
