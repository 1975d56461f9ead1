package overlay

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tableflip.dev/anchor/pkg/catalog"
	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

func ids(list []phrase.Phrase) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func flatCatalog(mode, lang string, builtIn ...string) *catalog.Catalog {
	list := make(phrase.Flat, 0, len(builtIn))
	for _, id := range builtIn {
		list = append(list, phrase.Phrase{ID: id, Text: "built-in " + id})
	}
	return catalog.New().Add(mode, lang, list)
}

func TestActivePhrasesBuiltInsThenUserInStoredOrder(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil), WithGenerator(idgen.NewFixed("u1", "u2")))
	cat := flatCatalog("sadness", "en", "b1", "b2", "b3")

	if _, err := r.AddUserPhrase(ctx, "sadness", "en", "first", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := r.AddUserPhrase(ctx, "sadness", "en", "second", "softly"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.HidePhrase(ctx, "sadness", "en", "b2"); err != nil {
		t.Fatalf("hide: %v", err)
	}

	active, err := r.ActivePhrases(ctx, "sadness", "en", cat)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]string{"b1", "b3", "u1", "u2"}, ids(active)); diff != "" {
		t.Fatalf("active ids (-want +got):\n%s", diff)
	}
	if active[3].Subphrase != "softly" {
		t.Fatalf("subphrase lost: %+v", active[3])
	}
}

func TestActivePhrasesHidingOnlyBuiltInLeavesUserPhrase(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil))
	cat := flatCatalog("panic", "en", "b1")

	if err := r.HidePhrase(ctx, "panic", "en", "b1"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	added, err := r.AddUserPhrase(ctx, "panic", "en", "mine", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	active, err := r.ActivePhrases(ctx, "panic", "en", cat)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]phrase.Phrase{added}, active); diff != "" {
		t.Fatalf("active (-want +got):\n%s", diff)
	}
}

func TestBreatheScenario(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil))
	cat := flatCatalog("panic", "en", "p1")

	breathe, err := r.AddUserPhrase(ctx, "panic", "en", "Breathe", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	active, _ := r.ActivePhrases(ctx, "panic", "en", cat)
	if diff := cmp.Diff([]string{"p1", breathe.ID}, ids(active)); diff != "" {
		t.Fatalf("after add (-want +got):\n%s", diff)
	}

	if err := r.HidePhrase(ctx, "panic", "en", "p1"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	active, _ = r.ActivePhrases(ctx, "panic", "en", cat)
	if len(active) != 1 || active[0].Text != "Breathe" {
		t.Fatalf("expected only Breathe, got %+v", active)
	}
}

func TestHideIsIdempotentAndUnhideUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory(nil)
	r := New(m)

	for i := 0; i < 2; i++ {
		if err := r.HidePhrase(ctx, "anger", "en", "b1"); err != nil {
			t.Fatalf("hide: %v", err)
		}
	}
	if diff := cmp.Diff([]string{"b1"}, r.HiddenPhrases(ctx, "anger", "en")); diff != "" {
		t.Fatalf("hidden (-want +got):\n%s", diff)
	}

	if err := r.UnhidePhrase(ctx, "grounding", "en", "never-hidden"); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "hidden_phrases:grounding:en"); ok {
		t.Fatalf("unhide of a never-hidden id must not write")
	}

	if err := r.UnhidePhrase(ctx, "anger", "en", "b1"); err != nil {
		t.Fatalf("unhide: %v", err)
	}
	if got := r.HiddenPhrases(ctx, "anger", "en"); len(got) != 0 {
		t.Fatalf("expected nothing hidden, got %v", got)
	}
}

func TestAddGetRemoveRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil))

	a, err := r.AddUserPhrase(ctx, "grounding", "en", "Touch something cold", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := r.AddUserPhrase(ctx, "grounding", "en", "Count back from ten", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if diff := cmp.Diff([]phrase.Phrase{a, b}, r.UserPhrases(ctx, "grounding", "en")); diff != "" {
		t.Fatalf("user phrases (-want +got):\n%s", diff)
	}

	if err := r.RemoveUserPhrase(ctx, "grounding", "en", a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.RemoveUserPhrase(ctx, "grounding", "en", "absent"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if diff := cmp.Diff([]phrase.Phrase{b}, r.UserPhrases(ctx, "grounding", "en")); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
}

func TestUserPhrasesAbsentIsEmptyNotNil(t *testing.T) {
	r := New(store.NewMemory(nil))
	got := r.UserPhrases(context.Background(), "panic", "en")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestFallbackUsesEnglishBuiltInsButRequestedLanguageOverlay(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil), WithGenerator(idgen.NewFixed("fr-user")))
	cat := flatCatalog("sadness", "en", "b1", "b2")

	// Overlay under en must not leak into fr.
	if err := r.HidePhrase(ctx, "sadness", "en", "b1"); err != nil {
		t.Fatalf("hide en: %v", err)
	}
	if err := r.HidePhrase(ctx, "sadness", "fr", "b2"); err != nil {
		t.Fatalf("hide fr: %v", err)
	}
	if _, err := r.AddUserPhrase(ctx, "sadness", "fr", "Respire", ""); err != nil {
		t.Fatalf("add fr: %v", err)
	}

	active, err := r.ActivePhrases(ctx, "sadness", "fr", cat)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]string{"b1", "fr-user"}, ids(active)); diff != "" {
		t.Fatalf("fr active (-want +got):\n%s", diff)
	}
}

func TestFallbackWhenRequestedBucketIsEmpty(t *testing.T) {
	cat := flatCatalog("grounding", "en", "g1").Add("grounding", "de", phrase.Flat{})
	got := BuiltInContent(cat, "grounding", "de")
	if diff := cmp.Diff([]string{"g1"}, ids(got.All())); diff != "" {
		t.Fatalf("fallback (-want +got):\n%s", diff)
	}
	if got := BuiltInContent(nil, "grounding", "en"); !got.Empty() {
		t.Fatalf("nil catalog should give empty content")
	}
}

func TestCustomModeWithoutBuiltInsShowsUserPhrasesOnly(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil), WithGenerator(idgen.NewFixed("u1")))
	if _, err := r.AddUserPhrase(ctx, "custom-1", "en", "mine", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	active, err := r.ActivePhrases(ctx, "custom-1", "en", catalog.BuiltIn())
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]string{"u1"}, ids(active)); diff != "" {
		t.Fatalf("active (-want +got):\n%s", diff)
	}
}

func phasedCatalog() *catalog.Catalog {
	return catalog.New().Add("panic", "en", phrase.PhasedSet{
		Preparation:   []phrase.Phrase{{ID: "p1", Text: "prep"}},
		Confrontation: []phrase.Phrase{{ID: "c1", Text: "face"}, {ID: "c2", Text: "breathe"}},
		Reinforcement: []phrase.Phrase{{ID: "r1", Text: "done"}},
	})
}

func TestActivePhrasesByPhaseResolvesEachPhaseIndependently(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil), WithGenerator(idgen.NewFixed("u-prep", "u-flat")))
	cat := phasedCatalog()

	if err := r.HidePhraseInPhase(ctx, "panic", "en", phrase.Confrontation, "c1"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	// Same id hidden in another phase has no effect on confrontation.
	if err := r.HidePhraseInPhase(ctx, "panic", "en", phrase.Reinforcement, "c2"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := r.AddUserPhraseInPhase(ctx, "panic", "en", phrase.Preparation, "ready", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	// A flat-scope addition is not part of any phase.
	if _, err := r.AddUserPhrase(ctx, "panic", "en", "flat", ""); err != nil {
		t.Fatalf("add flat: %v", err)
	}

	set, err := r.ActivePhrasesByPhase(ctx, "panic", "en", cat)
	if err != nil {
		t.Fatalf("by phase: %v", err)
	}
	want := map[phrase.Phase][]string{
		phrase.Preparation:   {"p1", "u-prep"},
		phrase.Confrontation: {"c2"},
		phrase.Reinforcement: {"r1"},
	}
	for p, w := range want {
		if diff := cmp.Diff(w, ids(set.In(p))); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", p, diff)
		}
	}

	if diff := cmp.Diff([]string{"c2"}, r.HiddenPhrasesInPhase(ctx, "panic", "en", phrase.Reinforcement)); diff != "" {
		t.Fatalf("reinforcement hidden (-want +got):\n%s", diff)
	}
	if got := r.UserPhrasesInPhase(ctx, "panic", "en", phrase.Confrontation); len(got) != 0 {
		t.Fatalf("confrontation should have no user phrases, got %v", got)
	}
}

func TestPhasedRemoveAndUnhide(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil), WithGenerator(idgen.NewFixed("u1")))
	cat := phasedCatalog()

	added, err := r.AddUserPhraseInPhase(ctx, "panic", "en", phrase.Reinforcement, "proud", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := r.HidePhraseInPhase(ctx, "panic", "en", phrase.Preparation, "p1"); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if err := r.RemoveUserPhraseInPhase(ctx, "panic", "en", phrase.Reinforcement, added.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.UnhidePhraseInPhase(ctx, "panic", "en", phrase.Preparation, "p1"); err != nil {
		t.Fatalf("unhide: %v", err)
	}

	set, err := r.ActivePhrasesByPhase(ctx, "panic", "en", cat)
	if err != nil {
		t.Fatalf("by phase: %v", err)
	}
	if diff := cmp.Diff([]string{"p1", "c1", "c2", "r1"}, ids(set.All())); diff != "" {
		t.Fatalf("all (-want +got):\n%s", diff)
	}
}

func TestResolveFollowsBuiltInShape(t *testing.T) {
	ctx := context.Background()
	r := New(store.NewMemory(nil))
	cat := phasedCatalog().Add("sadness", "en", phrase.Flat{{ID: "s1"}})

	content, err := r.Resolve(ctx, "panic", "en", cat)
	if err != nil {
		t.Fatalf("resolve panic: %v", err)
	}
	if _, ok := content.(phrase.PhasedSet); !ok {
		t.Fatalf("panic should resolve to phased content, got %T", content)
	}

	content, err = r.Resolve(ctx, "sadness", "en", cat)
	if err != nil {
		t.Fatalf("resolve sadness: %v", err)
	}
	if _, ok := content.(phrase.Flat); !ok {
		t.Fatalf("sadness should resolve to flat content, got %T", content)
	}

	// Flat view of phased built-ins keeps phase order.
	active, _ := r.ActivePhrases(ctx, "panic", "en", cat)
	if diff := cmp.Diff([]string{"p1", "c1", "c2", "r1"}, ids(active)); diff != "" {
		t.Fatalf("flat view (-want +got):\n%s", diff)
	}
}

func TestCorruptValueIsTreatedAsEmptyAndLogged(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	m := store.NewMemory(map[string]string{
		"user_phrases:panic:en":   `[{"id":`,
		"hidden_phrases:panic:en": `"not a list"`,
	})
	r := New(m, WithLogger(zap.New(core)), WithGenerator(idgen.NewFixed("u1")))

	if got := r.UserPhrases(ctx, "panic", "en"); len(got) != 0 {
		t.Fatalf("expected empty user phrases, got %v", got)
	}
	active, err := r.ActivePhrases(ctx, "panic", "en", flatCatalog("panic", "en", "b1"))
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if diff := cmp.Diff([]string{"b1"}, ids(active)); diff != "" {
		t.Fatalf("active (-want +got):\n%s", diff)
	}
	if n := logs.FilterMessage("discarding unreadable user phrases").Len(); n == 0 {
		t.Fatalf("expected a warning for the corrupt user bucket")
	}
	if n := logs.FilterMessage("discarding unreadable hidden phrases").Len(); n == 0 {
		t.Fatalf("expected a warning for the corrupt hidden bucket")
	}

	// The next write replaces the corrupt value.
	if _, err := r.AddUserPhrase(ctx, "panic", "en", "fresh", ""); err != nil {
		t.Fatalf("add over corrupt value: %v", err)
	}
	if diff := cmp.Diff([]string{"u1"}, ids(r.UserPhrases(ctx, "panic", "en"))); diff != "" {
		t.Fatalf("after add (-want +got):\n%s", diff)
	}
}

type faultyAdapter struct {
	*store.Memory
	getErr error
	setErr error
	sets   int
}

func (f *faultyAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	return f.Memory.Get(ctx, key)
}

func (f *faultyAdapter) Set(ctx context.Context, key, value string) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Memory.Set(ctx, key, value)
}

var errDisk = errors.New("disk full")

func TestWriteFailureIsReturnedAndStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := &faultyAdapter{Memory: store.NewMemory(nil)}
	r := New(f, WithGenerator(idgen.NewFixed("u1", "u2")))

	if _, err := r.AddUserPhrase(ctx, "panic", "en", "kept", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	f.setErr = errDisk
	if _, err := r.AddUserPhrase(ctx, "panic", "en", "lost", ""); !errors.Is(err, errDisk) {
		t.Fatalf("expected disk error, got %v", err)
	}
	if err := r.HidePhrase(ctx, "panic", "en", "b1"); !errors.Is(err, errDisk) {
		t.Fatalf("expected disk error from hide, got %v", err)
	}

	if diff := cmp.Diff([]string{"u1"}, ids(r.UserPhrases(ctx, "panic", "en"))); diff != "" {
		t.Fatalf("stored phrases changed (-want +got):\n%s", diff)
	}
	if got := r.HiddenPhrases(ctx, "panic", "en"); len(got) != 0 {
		t.Fatalf("hidden set changed: %v", got)
	}
}

func TestReadFailureAbortsMutationWithoutWriting(t *testing.T) {
	ctx := context.Background()
	f := &faultyAdapter{Memory: store.NewMemory(map[string]string{
		"user_phrases:panic:en": `[{"id":"u1","text":"precious"}]`,
	})}
	r := New(f)

	f.getErr = errDisk
	if _, err := r.AddUserPhrase(ctx, "panic", "en", "new", ""); !errors.Is(err, errDisk) {
		t.Fatalf("expected read error, got %v", err)
	}
	if err := r.RemoveUserPhrase(ctx, "panic", "en", "u1"); !errors.Is(err, errDisk) {
		t.Fatalf("expected read error, got %v", err)
	}
	if f.sets != 0 {
		t.Fatalf("no write may follow a failed read, saw %d", f.sets)
	}

	// Display reads degrade instead of failing.
	active, err := r.ActivePhrases(ctx, "panic", "en", flatCatalog("panic", "en", "b1"))
	if err != nil {
		t.Fatalf("active should degrade, got %v", err)
	}
	if diff := cmp.Diff([]string{"b1"}, ids(active)); diff != "" {
		t.Fatalf("active (-want +got):\n%s", diff)
	}

	f.getErr = nil
	if diff := cmp.Diff([]string{"u1"}, ids(r.UserPhrases(ctx, "panic", "en"))); diff != "" {
		t.Fatalf("stored data lost (-want +got):\n%s", diff)
	}
}

// gatedAdapter holds every Get of key until n readers have arrived, forcing
// concurrent read-modify-write cycles to overlap.
type gatedAdapter struct {
	*store.Memory
	key  string
	gate sync.WaitGroup
}

func (g *gatedAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := g.Memory.Get(ctx, key)
	if key == g.key {
		g.gate.Done()
		g.gate.Wait()
	}
	return v, ok, err
}

// Concurrent mutations of one bucket are not serialized: both adds succeed
// but the later write overwrites the earlier one. This is the accepted
// behaviour for a single-user app.
func TestConcurrentAddsToSameScopeLastWriteWins(t *testing.T) {
	ctx := context.Background()
	g := &gatedAdapter{Memory: store.NewMemory(nil), key: "user_phrases:panic:en"}
	g.gate.Add(2)
	r := New(g, WithGenerator(idgen.NewFixed("a", "b")))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, text := range []string{"tap one", "tap two"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = r.AddUserPhrase(ctx, "panic", "en", text, "")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	g.key = ""
	if got := r.UserPhrases(ctx, "panic", "en"); len(got) != 1 {
		t.Fatalf("expected one surviving phrase from the race, got %d: %v", len(got), got)
	}
}
