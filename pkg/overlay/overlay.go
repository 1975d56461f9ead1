// Package overlay merges built-in phrase content with the user's overlay:
// phrases they added and built-in phrases they hid.
//
// Every bucket is addressed by a scope (mode, language and, for phased
// content, phase) and stored under its own key. Mutations read the whole
// bucket, change it, and write it back. Two mutations of the same bucket that
// overlap in time race and the last write wins; callers in a single-user UI
// issue them sequentially.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

// FallbackLanguage is consulted when a mode has no built-in content in the
// requested language.
const FallbackLanguage = "en"

// Catalog supplies built-in content. It is static and never persisted.
type Catalog interface {
	Lookup(mode, language string) (phrase.Content, bool)
}

// Resolver reads and writes phrase overlays and computes active phrases.
type Resolver struct {
	store store.Adapter
	ids   idgen.Generator
	log   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for degraded reads.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithGenerator sets the generator for user phrase IDs.
func WithGenerator(ids idgen.Generator) Option {
	return func(r *Resolver) {
		if ids != nil {
			r.ids = ids
		}
	}
}

// New returns a Resolver over a.
func New(a store.Adapter, opts ...Option) *Resolver {
	r := &Resolver{
		store: a,
		ids:   idgen.UUIDv7{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func flat(mode, lang string) store.Scope {
	return store.Scope{Mode: mode, Language: lang}
}

func phased(mode, lang string, p phrase.Phase) store.Scope {
	return store.Scope{Mode: mode, Language: lang, Phase: string(p)}
}

// UserPhrases returns the phrases the user added to (mode, lang). Read
// failures are logged and yield an empty list.
func (r *Resolver) UserPhrases(ctx context.Context, mode, lang string) []phrase.Phrase {
	return r.userOrEmpty(ctx, flat(mode, lang))
}

// AddUserPhrase appends a new phrase to (mode, lang) and returns it.
// Callers validate text.
func (r *Resolver) AddUserPhrase(ctx context.Context, mode, lang, text, subphrase string) (phrase.Phrase, error) {
	return r.add(ctx, flat(mode, lang), text, subphrase)
}

// RemoveUserPhrase deletes the user phrase id from (mode, lang). An unknown
// id is a no-op.
func (r *Resolver) RemoveUserPhrase(ctx context.Context, mode, lang, id string) error {
	return r.remove(ctx, flat(mode, lang), id)
}

// HiddenPhrases returns the built-in IDs hidden in (mode, lang).
func (r *Resolver) HiddenPhrases(ctx context.Context, mode, lang string) []string {
	return r.hiddenOrEmpty(ctx, flat(mode, lang))
}

// HidePhrase hides built-in phrase id in (mode, lang). Idempotent.
func (r *Resolver) HidePhrase(ctx context.Context, mode, lang, id string) error {
	return r.hide(ctx, flat(mode, lang), id)
}

// UnhidePhrase reverses HidePhrase. Unhiding a visible phrase is a no-op.
func (r *Resolver) UnhidePhrase(ctx context.Context, mode, lang, id string) error {
	return r.unhide(ctx, flat(mode, lang), id)
}

func (r *Resolver) UserPhrasesInPhase(ctx context.Context, mode, lang string, p phrase.Phase) []phrase.Phrase {
	return r.userOrEmpty(ctx, phased(mode, lang, p))
}

func (r *Resolver) AddUserPhraseInPhase(ctx context.Context, mode, lang string, p phrase.Phase, text, subphrase string) (phrase.Phrase, error) {
	return r.add(ctx, phased(mode, lang, p), text, subphrase)
}

func (r *Resolver) RemoveUserPhraseInPhase(ctx context.Context, mode, lang string, p phrase.Phase, id string) error {
	return r.remove(ctx, phased(mode, lang, p), id)
}

func (r *Resolver) HiddenPhrasesInPhase(ctx context.Context, mode, lang string, p phrase.Phase) []string {
	return r.hiddenOrEmpty(ctx, phased(mode, lang, p))
}

func (r *Resolver) HidePhraseInPhase(ctx context.Context, mode, lang string, p phrase.Phase, id string) error {
	return r.hide(ctx, phased(mode, lang, p), id)
}

func (r *Resolver) UnhidePhraseInPhase(ctx context.Context, mode, lang string, p phrase.Phase, id string) error {
	return r.unhide(ctx, phased(mode, lang, p), id)
}

// loadUser returns the stored user list. A corrupt value is logged and
// treated as empty; adapter failures are returned.
func (r *Resolver) loadUser(ctx context.Context, s store.Scope) ([]phrase.Phrase, error) {
	key := s.UserPhrasesKey()
	list, err := store.ReadList[phrase.Phrase](ctx, r.store, key)
	if errors.Is(err, store.ErrCorrupt) {
		r.log.Warn("discarding unreadable user phrases", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return list, err
}

func (r *Resolver) loadHidden(ctx context.Context, s store.Scope) ([]string, error) {
	key := s.HiddenPhrasesKey()
	list, err := store.ReadList[string](ctx, r.store, key)
	if errors.Is(err, store.ErrCorrupt) {
		r.log.Warn("discarding unreadable hidden phrases", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return list, err
}

func (r *Resolver) userOrEmpty(ctx context.Context, s store.Scope) []phrase.Phrase {
	list, _ := r.degradedUser(ctx, s)
	if list == nil {
		list = []phrase.Phrase{}
	}
	return list
}

func (r *Resolver) hiddenOrEmpty(ctx context.Context, s store.Scope) []string {
	list, _ := r.degradedHidden(ctx, s)
	if list == nil {
		list = []string{}
	}
	return list
}

func (r *Resolver) add(ctx context.Context, s store.Scope, text, subphrase string) (phrase.Phrase, error) {
	list, err := r.loadUser(ctx, s)
	if err != nil {
		return phrase.Phrase{}, fmt.Errorf("overlay: add phrase: %w", err)
	}
	p := phrase.Phrase{ID: r.ids.NewID(), Text: text, Subphrase: subphrase}
	next := append(slices.Clip(list), p)
	if err := store.WriteList(ctx, r.store, s.UserPhrasesKey(), next); err != nil {
		return phrase.Phrase{}, fmt.Errorf("overlay: add phrase: %w", err)
	}
	return p, nil
}

func (r *Resolver) remove(ctx context.Context, s store.Scope, id string) error {
	list, err := r.loadUser(ctx, s)
	if err != nil {
		return fmt.Errorf("overlay: remove phrase: %w", err)
	}
	next := slices.DeleteFunc(slices.Clone(list), func(p phrase.Phrase) bool { return p.ID == id })
	if len(next) == len(list) {
		return nil
	}
	if err := store.WriteList(ctx, r.store, s.UserPhrasesKey(), next); err != nil {
		return fmt.Errorf("overlay: remove phrase: %w", err)
	}
	return nil
}

func (r *Resolver) hide(ctx context.Context, s store.Scope, id string) error {
	hidden, err := r.loadHidden(ctx, s)
	if err != nil {
		return fmt.Errorf("overlay: hide phrase: %w", err)
	}
	if slices.Contains(hidden, id) {
		return nil
	}
	next := append(slices.Clip(hidden), id)
	if err := store.WriteList(ctx, r.store, s.HiddenPhrasesKey(), next); err != nil {
		return fmt.Errorf("overlay: hide phrase: %w", err)
	}
	return nil
}

func (r *Resolver) unhide(ctx context.Context, s store.Scope, id string) error {
	hidden, err := r.loadHidden(ctx, s)
	if err != nil {
		return fmt.Errorf("overlay: unhide phrase: %w", err)
	}
	next := slices.DeleteFunc(slices.Clone(hidden), func(h string) bool { return h == id })
	if len(next) == len(hidden) {
		return nil
	}
	if err := store.WriteList(ctx, r.store, s.HiddenPhrasesKey(), next); err != nil {
		return fmt.Errorf("overlay: unhide phrase: %w", err)
	}
	return nil
}
