// Package app wires the phrase overlay, mode registry, maintenance and
// preference services over one storage adapter so UIs and CLIs can share
// logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/anchor/pkg/catalog"
	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/maintenance"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/overlay"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/prefs"
	"tableflip.dev/anchor/pkg/registry"
	"tableflip.dev/anchor/pkg/store"
)

// ErrWatchUnsupported is returned by Watch when the backend cannot report
// changes.
var ErrWatchUnsupported = errors.New("app: backend does not support watching")

// Service is the engine. Its fields are safe to use directly.
type Service struct {
	Store       store.Adapter
	Catalog     *catalog.Catalog
	Phrases     *overlay.Resolver
	Modes       *registry.Registry
	Maintenance *maintenance.Service
	Prefs       *prefs.Service

	log *zap.Logger
}

type options struct {
	catalog *catalog.Catalog
	ids     idgen.Generator
	now     func() time.Time
}

type Option func(*options)

// WithCatalog replaces the embedded built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithGenerator sets the ID generator for user phrases and custom modes.
func WithGenerator(ids idgen.Generator) Option {
	return func(o *options) { o.ids = ids }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New builds a Service over a. A nil log discards output.
func New(a store.Adapter, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.BuiltIn()
	}

	return &Service{
		Store:   a,
		Catalog: o.catalog,
		Phrases: overlay.New(a,
			overlay.WithLogger(log.Named("overlay")),
			overlay.WithGenerator(o.ids),
		),
		Modes: registry.New(a,
			registry.WithLogger(log.Named("registry")),
			registry.WithGenerator(o.ids),
			registry.WithClock(o.now),
		),
		Maintenance: maintenance.New(a, log.Named("maintenance")),
		Prefs:       prefs.New(a, log.Named("prefs")),
		log:         log,
	}
}

// Open loads the adapter selected by cfg and builds a Service over it. A nil
// cfg loads the default config.
func Open(cfg store.Config, log *zap.Logger, opts ...Option) (*Service, error) {
	a, err := store.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("app: open store: %w", err)
	}
	return New(a, log, opts...), nil
}

func (s *Service) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}

// ActivePhrases resolves (modeID, lang) against the service catalog.
func (s *Service) ActivePhrases(ctx context.Context, modeID, lang string) ([]phrase.Phrase, error) {
	return s.Phrases.ActivePhrases(ctx, modeID, lang, s.Catalog)
}

func (s *Service) ActivePhrasesByPhase(ctx context.Context, modeID, lang string) (phrase.PhasedSet, error) {
	return s.Phrases.ActivePhrasesByPhase(ctx, modeID, lang, s.Catalog)
}

// Resolve returns the active content of (modeID, lang) shaped by the mode's
// method. Custom phased modes have no built-in content but still read their
// phase buckets.
func (s *Service) Resolve(ctx context.Context, modeID, lang string) (phrase.Content, error) {
	if s.Modes.ModeMethod(ctx, modeID) == mode.MethodPhased {
		return s.ActivePhrasesByPhase(ctx, modeID, lang)
	}
	active, err := s.ActivePhrases(ctx, modeID, lang)
	if err != nil {
		return nil, err
	}
	return phrase.Flat(active), nil
}

// Watch subscribes to storage change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	w, ok := s.Store.(interface {
		Watch(context.Context) (<-chan store.Event, error)
	})
	if !ok {
		return nil, ErrWatchUnsupported
	}
	return w.Watch(ctx)
}
