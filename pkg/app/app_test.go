package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/anchor/pkg/catalog"
	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/prefs"
	"tableflip.dev/anchor/pkg/store"
)

func testCatalog() *catalog.Catalog {
	return catalog.New().
		Add("panic", "en", phrase.PhasedSet{
			Preparation:   []phrase.Phrase{{ID: "p1", Text: "It will pass"}},
			Confrontation: []phrase.Phrase{{ID: "c1", Text: "Breathe out slowly"}},
			Reinforcement: []phrase.Phrase{{ID: "r1", Text: "You did it"}},
		}).
		Add("sadness", "en", phrase.Flat{
			{ID: "s1", Text: "This feeling is allowed"},
			{ID: "s2", Text: "Be gentle with yourself"},
		})
}

func newService(a store.Adapter) *Service {
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(a, nil,
		WithCatalog(testCatalog()),
		WithGenerator(idgen.NewSequence("id")),
		WithClock(func() time.Time { return clock }),
	)
}

func phraseIDs(list []phrase.Phrase) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestResetRestoresShippedContent(t *testing.T) {
	ctx := context.Background()
	s := newService(store.NewMemory(nil))

	custom, err := s.Modes.AddCustomMode(ctx, "Commute", mode.MethodSit)
	if err != nil {
		t.Fatalf("add mode: %v", err)
	}
	steps := []error{
		s.Modes.HideMode(ctx, "panic"),
		s.Modes.HideMode(ctx, custom.ID),
		s.Phrases.HidePhrase(ctx, "sadness", "en", "s1"),
		s.Phrases.HidePhraseInPhase(ctx, "panic", "en", phrase.Confrontation, "c1"),
		s.Prefs.SetTheme(ctx, prefs.ThemeDark),
		s.Maintenance.MarkNavigationHintSeen(ctx),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if _, err := s.Phrases.AddUserPhrase(ctx, "sadness", "en", "Call a friend", ""); err != nil {
		t.Fatalf("add phrase: %v", err)
	}
	if _, err := s.Phrases.AddUserPhrase(ctx, custom.ID, "en", "Look out the window", ""); err != nil {
		t.Fatalf("add phrase: %v", err)
	}

	if err := s.Maintenance.ResetAllToDefaults(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	active, err := s.ActivePhrases(ctx, "sadness", "en")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]string{"s1", "s2"}, phraseIDs(active)); diff != "" {
		t.Fatalf("sadness after reset (-want +got):\n%s", diff)
	}
	set, err := s.ActivePhrasesByPhase(ctx, "panic", "en")
	if err != nil {
		t.Fatalf("by phase: %v", err)
	}
	want, _ := testCatalog().Lookup("panic", "en")
	if diff := cmp.Diff(want.(phrase.PhasedSet), set); diff != "" {
		t.Fatalf("panic after reset (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(mode.BuiltIns(), s.Modes.VisibleModes(ctx)); diff != "" {
		t.Fatalf("visible modes (-want +got):\n%s", diff)
	}
	if got := s.Modes.CustomModes(ctx); len(got) != 0 {
		t.Fatalf("custom modes survived reset: %v", got)
	}
	if got := s.Modes.HiddenModes(ctx); len(got) != 0 {
		t.Fatalf("hidden modes survived reset: %v", got)
	}

	if got := s.Prefs.Theme(ctx); got != prefs.ThemeDark {
		t.Fatalf("theme should be preserved, got %q", got)
	}
	if !s.Maintenance.HasSeenNavigationHint(ctx) {
		t.Fatalf("hint flag should be preserved")
	}
}

func TestResolveUsesServiceCatalog(t *testing.T) {
	ctx := context.Background()
	s := newService(store.NewMemory(nil))

	content, err := s.Resolve(ctx, "panic", "es")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	set, ok := content.(phrase.PhasedSet)
	if !ok {
		t.Fatalf("expected phased content, got %T", content)
	}
	if diff := cmp.Diff([]string{"p1", "c1", "r1"}, phraseIDs(set.All())); diff != "" {
		t.Fatalf("fallback content (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory(map[string]string{
		"user_phrases:gone:en":    `[{"id":"x","text":"orphan"}]`,
		"hidden_phrases:anger:en": `{broken`,
	})
	s := newService(m)

	keep, _ := s.Modes.AddCustomMode(ctx, "Keep", mode.MethodSit)
	_ = s.Modes.HideMode(ctx, "sadness")
	_, _ = s.Phrases.AddUserPhrase(ctx, "sadness", "en", "one", "")
	_, _ = s.Phrases.AddUserPhrase(ctx, "sadness", "en", "two", "")
	_ = s.Phrases.HidePhrase(ctx, "sadness", "en", "s1")
	_ = s.Phrases.HidePhraseInPhase(ctx, "panic", "en", phrase.Preparation, "p1")
	_, _ = s.Phrases.AddUserPhrase(ctx, keep.ID, "fr", "trois", "")

	r, err := s.Report(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	want := []ModeSummary{
		{Mode: "panic", Scopes: []ScopeSummary{
			{Scope: store.Scope{Mode: "panic", Language: "en", Phase: "preparation"}, Hidden: 1},
		}},
		{Mode: "sadness", Hidden: true, Scopes: []ScopeSummary{
			{Scope: store.Scope{Mode: "sadness", Language: "en"}, User: 2, Hidden: 1},
		}},
		{Mode: "anger", Scopes: []ScopeSummary{
			{Scope: store.Scope{Mode: "anger", Language: "en"}, Corrupt: true},
		}},
		{Mode: "gone", Orphaned: true, Scopes: []ScopeSummary{
			{Scope: store.Scope{Mode: "gone", Language: "en"}, User: 1},
		}},
		{Mode: keep.ID, Scopes: []ScopeSummary{
			{Scope: store.Scope{Mode: keep.ID, Language: "fr"}, User: 1},
		}},
	}
	if diff := cmp.Diff(want, r.Modes); diff != "" {
		t.Fatalf("modes (-want +got):\n%s", diff)
	}
	if r.Keys != 6 || r.CustomModes != 1 || r.HiddenModes != 1 {
		t.Fatalf("unexpected totals: keys=%d custom=%d hidden=%d", r.Keys, r.CustomModes, r.HiddenModes)
	}
	if r.Theme != prefs.ThemeAuto || r.Language != "en" || r.HintSeen {
		t.Fatalf("unexpected prefs: %+v", r)
	}
}

func TestMigrateToSQLite(t *testing.T) {
	ctx := context.Background()
	src := store.OpenDiskv(filepath.Join(t.TempDir(), "data"), 0)
	s := newService(src)

	if _, err := s.Modes.AddCustomMode(ctx, "Travel", mode.MethodPhased); err != nil {
		t.Fatalf("add mode: %v", err)
	}
	if _, err := s.Phrases.AddUserPhraseInPhase(ctx, "panic", "en", phrase.Confrontation, "Feet on the floor", ""); err != nil {
		t.Fatalf("add phrase: %v", err)
	}
	if err := s.Prefs.SetLanguage(ctx, "es"); err != nil {
		t.Fatalf("set language: %v", err)
	}

	dst, err := store.OpenSQLite(filepath.Join(t.TempDir(), "anchor.sqlite"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer dst.Close()
	if err := dst.Set(ctx, "user_phrases:stale:en", `[]`); err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := s.MigrateTo(ctx, dst, true)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 keys copied, got %d", n)
	}

	srcKeys, _ := src.Keys(ctx)
	dstKeys, _ := dst.Keys(ctx)
	if diff := cmp.Diff(srcKeys, dstKeys); diff != "" {
		t.Fatalf("keys (-src +dst):\n%s", diff)
	}

	migrated := newService(dst)
	if got := migrated.Prefs.Language(ctx); got != "es" {
		t.Fatalf("language not migrated: %q", got)
	}
	if diff := cmp.Diff(s.Modes.CustomModes(ctx), migrated.Modes.CustomModes(ctx)); diff != "" {
		t.Fatalf("custom modes (-src +dst):\n%s", diff)
	}

	if _, err := s.MigrateTo(ctx, src, false); !errors.Is(err, ErrSameStore) {
		t.Fatalf("expected ErrSameStore, got %v", err)
	}
}

func TestWatchRequiresDiskv(t *testing.T) {
	s := newService(store.NewMemory(nil))
	if _, err := s.Watch(context.Background()); !errors.Is(err, ErrWatchUnsupported) {
		t.Fatalf("expected ErrWatchUnsupported, got %v", err)
	}
}

func TestResolveFollowsModeMethod(t *testing.T) {
	ctx := context.Background()
	s := newService(store.NewMemory(nil))

	steps, err := s.Modes.AddCustomMode(ctx, "Steps", mode.MethodPhased)
	if err != nil {
		t.Fatalf("add mode: %v", err)
	}
	added, err := s.Phrases.AddUserPhraseInPhase(ctx, steps.ID, "en", phrase.Preparation, "Stand up", "")
	if err != nil {
		t.Fatalf("add phrase: %v", err)
	}

	content, err := s.Resolve(ctx, steps.ID, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	set, ok := content.(phrase.PhasedSet)
	if !ok {
		t.Fatalf("expected phased content for a phased custom mode, got %T", content)
	}
	if diff := cmp.Diff([]string{added.ID}, phraseIDs(set.Preparation)); diff != "" {
		t.Fatalf("preparation (-want +got):\n%s", diff)
	}

	content, err = s.Resolve(ctx, "sadness", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := content.(phrase.Flat); !ok {
		t.Fatalf("expected flat content for sadness, got %T", content)
	}
}

func TestCheckPhase(t *testing.T) {
	ctx := context.Background()
	s := newService(store.NewMemory(nil))
	steps, _ := s.Modes.AddCustomMode(ctx, "Steps", mode.MethodPhased)

	tests := []struct {
		mode  string
		phase phrase.Phase
		want  error
	}{
		{mode: "panic", want: ErrPhaseRequired},
		{mode: "panic", phase: phrase.Confrontation},
		{mode: steps.ID, want: ErrPhaseRequired},
		{mode: steps.ID, phase: phrase.Reinforcement},
		{mode: "sadness"},
		{mode: "sadness", phase: phrase.Preparation, want: ErrNotPhased},
		{mode: "unknown"},
	}
	for _, tt := range tests {
		if err := s.CheckPhase(ctx, tt.mode, tt.phase); !errors.Is(err, tt.want) {
			t.Errorf("CheckPhase(%q, %q) = %v, want %v", tt.mode, tt.phase, err, tt.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	ctx := context.Background()
	s := newService(store.NewMemory(nil))
	if err := s.Prefs.SetLanguage(ctx, "fr"); err != nil {
		t.Fatalf("set language: %v", err)
	}

	for code, want := range map[string]string{"": "fr", "  ": "fr", "es-MX": "es", "pt-BR": "pt", "en": "en"} {
		got, err := s.Language(ctx, code)
		if err != nil || got != want {
			t.Errorf("Language(%q) = %q, %v; want %q", code, got, err, want)
		}
	}
	if _, err := s.Language(ctx, "xx"); !errors.Is(err, prefs.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}
