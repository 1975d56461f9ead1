// Package registry manages the user's custom modes and the set of hidden
// modes, and answers which modes are visible and how each is displayed.
package registry

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/store"
)

var (
	// ErrNotFound is returned when an update names a custom mode that does
	// not exist.
	ErrNotFound = errors.New("registry: custom mode not found")
	// ErrInvalidMethod is returned for a method outside mode.Methods.
	ErrInvalidMethod = errors.New("registry: invalid method")
)

// Patch is a partial update of a custom mode. Nil fields are left alone.
type Patch struct {
	Name   *string
	Method *mode.Method
}

// Registry reads and writes the custom-mode list and the hidden-mode set.
type Registry struct {
	store store.Adapter
	ids   idgen.Generator
	now   func() time.Time
	log   *zap.Logger
}

type Option func(*Registry)

func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func WithGenerator(ids idgen.Generator) Option {
	return func(r *Registry) {
		if ids != nil {
			r.ids = ids
		}
	}
}

// WithClock sets the source of createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a Registry over a.
func New(a store.Adapter, opts ...Option) *Registry {
	r := &Registry{
		store: a,
		ids:   idgen.UUIDv7{},
		now:   time.Now,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CustomModes returns every custom mode in stored order. Read failures are
// logged and yield an empty list.
func (r *Registry) CustomModes(ctx context.Context) []mode.Custom {
	list, err := r.loadCustom(ctx)
	if err != nil {
		r.log.Warn("reading custom modes failed", zap.String("key", store.CustomModesKey), zap.Error(err))
	}
	if list == nil {
		list = []mode.Custom{}
	}
	return list
}

// CustomMode returns the custom mode with the given id.
func (r *Registry) CustomMode(ctx context.Context, id string) (mode.Custom, bool) {
	for _, c := range r.CustomModes(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return mode.Custom{}, false
}

// AddCustomMode creates a custom mode stamped with the current time and
// appends it to the list.
func (r *Registry) AddCustomMode(ctx context.Context, name string, method mode.Method) (mode.Custom, error) {
	if !method.Valid() {
		return mode.Custom{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	list, err := r.loadCustom(ctx)
	if err != nil {
		return mode.Custom{}, fmt.Errorf("registry: add mode: %w", err)
	}
	c := mode.NewCustom(r.ids.NewID(), name, method, r.now())
	if err := store.WriteList(ctx, r.store, store.CustomModesKey, append(slices.Clip(list), c)); err != nil {
		return mode.Custom{}, fmt.Errorf("registry: add mode: %w", err)
	}
	return c, nil
}

// UpdateCustomMode applies patch to the custom mode id and returns the
// updated record. CreatedAt never changes.
func (r *Registry) UpdateCustomMode(ctx context.Context, id string, patch Patch) (mode.Custom, error) {
	if patch.Method != nil && !patch.Method.Valid() {
		return mode.Custom{}, fmt.Errorf("%w: %q", ErrInvalidMethod, *patch.Method)
	}
	list, err := r.loadCustom(ctx)
	if err != nil {
		return mode.Custom{}, fmt.Errorf("registry: update mode: %w", err)
	}
	i := slices.IndexFunc(list, func(c mode.Custom) bool { return c.ID == id })
	if i < 0 {
		return mode.Custom{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := slices.Clone(list)
	if patch.Name != nil {
		next[i].Name = *patch.Name
	}
	if patch.Method != nil {
		next[i].Method = *patch.Method
	}
	if next[i] == list[i] {
		return list[i], nil
	}
	if err := store.WriteList(ctx, r.store, store.CustomModesKey, next); err != nil {
		return mode.Custom{}, fmt.Errorf("registry: update mode: %w", err)
	}
	return next[i], nil
}

// DeleteCustomMode removes the custom mode id from the list and from the
// hidden-mode set in one batch. Its phrase overlays stay in storage. Deleting
// an unknown id is a no-op.
func (r *Registry) DeleteCustomMode(ctx context.Context, id string) error {
	list, err := r.loadCustom(ctx)
	if err != nil {
		return fmt.Errorf("registry: delete mode: %w", err)
	}
	hidden, err := r.loadHidden(ctx)
	if err != nil {
		return fmt.Errorf("registry: delete mode: %w", err)
	}

	entries := make(map[string]string, 2)
	if next := slices.DeleteFunc(slices.Clone(list), func(c mode.Custom) bool { return c.ID == id }); len(next) != len(list) {
		if entries[store.CustomModesKey], err = encodeList(next); err != nil {
			return fmt.Errorf("registry: delete mode: %w", err)
		}
	}
	if next := slices.DeleteFunc(slices.Clone(hidden), func(h string) bool { return h == id }); len(next) != len(hidden) {
		if entries[store.HiddenModesKey], err = encodeList(next); err != nil {
			return fmt.Errorf("registry: delete mode: %w", err)
		}
	}
	if len(entries) == 0 {
		return nil
	}
	if err := r.store.MultiSet(ctx, entries); err != nil {
		return fmt.Errorf("registry: delete mode: %w", err)
	}
	return nil
}

// HiddenModes returns the ids of hidden built-in and custom modes.
func (r *Registry) HiddenModes(ctx context.Context) []string {
	hidden, err := r.loadHidden(ctx)
	if err != nil {
		r.log.Warn("reading hidden modes failed", zap.String("key", store.HiddenModesKey), zap.Error(err))
	}
	if hidden == nil {
		hidden = []string{}
	}
	return hidden
}

// HideMode hides the mode id. Idempotent; unknown ids are stored and inert.
func (r *Registry) HideMode(ctx context.Context, id string) error {
	hidden, err := r.loadHidden(ctx)
	if err != nil {
		return fmt.Errorf("registry: hide mode: %w", err)
	}
	if slices.Contains(hidden, id) {
		return nil
	}
	if err := store.WriteList(ctx, r.store, store.HiddenModesKey, append(slices.Clip(hidden), id)); err != nil {
		return fmt.Errorf("registry: hide mode: %w", err)
	}
	return nil
}

func (r *Registry) UnhideMode(ctx context.Context, id string) error {
	hidden, err := r.loadHidden(ctx)
	if err != nil {
		return fmt.Errorf("registry: unhide mode: %w", err)
	}
	next := slices.DeleteFunc(slices.Clone(hidden), func(h string) bool { return h == id })
	if len(next) == len(hidden) {
		return nil
	}
	if err := store.WriteList(ctx, r.store, store.HiddenModesKey, next); err != nil {
		return fmt.Errorf("registry: unhide mode: %w", err)
	}
	return nil
}

// VisibleModes returns the built-in modes that are not hidden, in display
// order.
func (r *Registry) VisibleModes(ctx context.Context) []mode.BuiltIn {
	hidden := r.HiddenModes(ctx)
	return slices.DeleteFunc(mode.BuiltIns(), func(b mode.BuiltIn) bool {
		return slices.Contains(hidden, string(b))
	})
}

// VisibleCustomModes returns the custom modes that are not hidden, oldest
// first. Modes created in the same millisecond keep their stored order.
func (r *Registry) VisibleCustomModes(ctx context.Context) []mode.Custom {
	hidden := r.HiddenModes(ctx)
	visible := slices.DeleteFunc(r.CustomModes(ctx), func(c mode.Custom) bool {
		return slices.Contains(hidden, c.ID)
	})
	sortByCreation(visible)
	return visible
}

// AllModes returns every built-in mode followed by every custom mode,
// hidden or not.
func (r *Registry) AllModes(ctx context.Context) []mode.Mode {
	custom := r.CustomModes(ctx)
	sortByCreation(custom)
	return join(mode.BuiltIns(), custom)
}

// VisibleAll returns the visible built-in modes followed by the visible
// custom modes.
func (r *Registry) VisibleAll(ctx context.Context) []mode.Mode {
	return join(r.VisibleModes(ctx), r.VisibleCustomModes(ctx))
}

// ModeMethod returns how the mode id is displayed. Unknown ids get
// mode.DefaultMethod.
func (r *Registry) ModeMethod(ctx context.Context, id string) mode.Method {
	if b, ok := mode.ParseBuiltIn(id); ok {
		return b.Method()
	}
	if c, ok := r.CustomMode(ctx, id); ok {
		return mode.FromCustom(c).Method()
	}
	return mode.DefaultMethod
}

func (r *Registry) loadCustom(ctx context.Context) ([]mode.Custom, error) {
	list, err := store.ReadList[mode.Custom](ctx, r.store, store.CustomModesKey)
	if errors.Is(err, store.ErrCorrupt) {
		r.log.Warn("discarding unreadable custom modes", zap.String("key", store.CustomModesKey), zap.Error(err))
		return nil, nil
	}
	return list, err
}

func (r *Registry) loadHidden(ctx context.Context) ([]string, error) {
	list, err := store.ReadList[string](ctx, r.store, store.HiddenModesKey)
	if errors.Is(err, store.ErrCorrupt) {
		r.log.Warn("discarding unreadable hidden modes", zap.String("key", store.HiddenModesKey), zap.Error(err))
		return nil, nil
	}
	return list, err
}

func sortByCreation(list []mode.Custom) {
	slices.SortStableFunc(list, func(a, b mode.Custom) int {
		return cmp.Compare(a.CreatedAt.UnixMilli(), b.CreatedAt.UnixMilli())
	})
}

func join(builtIns []mode.BuiltIn, custom []mode.Custom) []mode.Mode {
	out := make([]mode.Mode, 0, len(builtIns)+len(custom))
	for _, b := range builtIns {
		out = append(out, mode.FromBuiltIn(b))
	}
	for _, c := range custom {
		out = append(out, mode.FromCustom(c))
	}
	return out
}

func encodeList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	return store.Encode(list)
}
