package overlay

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

// Merge computes (builtIn - hidden) followed by user, each in stored order.
// Duplicate IDs across the two layers are kept as they are.
func Merge(builtIn []phrase.Phrase, hidden []string, user []phrase.Phrase) []phrase.Phrase {
	skip := make(map[string]struct{}, len(hidden))
	for _, id := range hidden {
		skip[id] = struct{}{}
	}
	active := make([]phrase.Phrase, 0, len(builtIn)+len(user))
	for _, p := range builtIn {
		if _, hidden := skip[p.ID]; hidden {
			continue
		}
		active = append(active, p)
	}
	return append(active, user...)
}

// BuiltInContent looks up (mode, lang) in cat and falls back to
// FallbackLanguage when that bucket is missing or empty. A nil catalog or a
// mode without content yields empty flat content.
func BuiltInContent(cat Catalog, mode, lang string) phrase.Content {
	if cat == nil {
		return phrase.Flat{}
	}
	if content, ok := cat.Lookup(mode, lang); ok && !content.Empty() {
		return content
	}
	if lang != FallbackLanguage {
		if content, ok := cat.Lookup(mode, FallbackLanguage); ok {
			return content
		}
	}
	return phrase.Flat{}
}

// Resolve returns the active content for (mode, lang) in the shape of the
// built-in content: PhasedSet for phased modes, Flat otherwise.
func (r *Resolver) Resolve(ctx context.Context, mode, lang string, cat Catalog) (phrase.Content, error) {
	switch BuiltInContent(cat, mode, lang).(type) {
	case phrase.PhasedSet:
		return r.ActivePhrasesByPhase(ctx, mode, lang, cat)
	default:
		active, err := r.ActivePhrases(ctx, mode, lang, cat)
		if err != nil {
			return nil, err
		}
		return phrase.Flat(active), nil
	}
}

// ActivePhrases returns the active flat phrases for (mode, lang). Built-ins
// come from cat with language fallback; the user and hidden buckets are
// always those of lang. When the built-in content is phased its phrases are
// used in phase order. Storage failures degrade to an empty overlay; only a
// cancelled ctx is returned as an error.
func (r *Resolver) ActivePhrases(ctx context.Context, mode, lang string, cat Catalog) ([]phrase.Phrase, error) {
	builtIn := BuiltInContent(cat, mode, lang).All()

	var (
		user   []phrase.Phrase
		hidden []string
	)
	s := flat(mode, lang)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = r.degradedUser(gctx, s)
		return err
	})
	g.Go(func() (err error) {
		hidden, err = r.degradedHidden(gctx, s)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Merge(builtIn, hidden, user), nil
}

// ActivePhrasesByPhase resolves each phase of (mode, lang) independently.
// Flat built-in content contributes no built-ins to any phase.
func (r *Resolver) ActivePhrasesByPhase(ctx context.Context, mode, lang string, cat Catalog) (phrase.PhasedSet, error) {
	builtIn, _ := BuiltInContent(cat, mode, lang).(phrase.PhasedSet)

	phases := phrase.Phases()
	users := make([][]phrase.Phrase, len(phases))
	hiddens := make([][]string, len(phases))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range phases {
		s := phased(mode, lang, p)
		g.Go(func() (err error) {
			users[i], err = r.degradedUser(gctx, s)
			return err
		})
		g.Go(func() (err error) {
			hiddens[i], err = r.degradedHidden(gctx, s)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return phrase.PhasedSet{}, err
	}

	var active phrase.PhasedSet
	for i, p := range phases {
		active = active.With(p, Merge(builtIn.In(p), hiddens[i], users[i]))
	}
	return active, nil
}

// degradedUser reads a user bucket for display: adapter failures are logged
// and treated as an empty bucket unless ctx was cancelled.
func (r *Resolver) degradedUser(ctx context.Context, s store.Scope) ([]phrase.Phrase, error) {
	list, err := r.loadUser(ctx, s)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warn("reading user phrases failed", zap.String("key", s.UserPhrasesKey()), zap.Error(err))
		return nil, nil
	}
	return list, nil
}

func (r *Resolver) degradedHidden(ctx context.Context, s store.Scope) ([]string, error) {
	list, err := r.loadHidden(ctx, s)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warn("reading hidden phrases failed", zap.String("key", s.HiddenPhrasesKey()), zap.Error(err))
		return nil, nil
	}
	return list, nil
}
