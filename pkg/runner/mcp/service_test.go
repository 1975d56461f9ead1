package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/catalog"
	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

func newTestService() *Service {
	cat := catalog.New().
		Add("sadness", "en", phrase.Flat{{ID: "s1", Text: "It is okay"}}).
		Add("panic", "en", phrase.PhasedSet{
			Preparation:   []phrase.Phrase{{ID: "p1", Text: "A wave"}},
			Confrontation: []phrase.Phrase{{ID: "c1", Text: "Breathe"}},
		})
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return NewService(app.New(store.NewMemory(nil), nil,
		app.WithCatalog(cat),
		app.WithGenerator(idgen.NewSequence("mcp")),
		app.WithClock(func() time.Time { return created }),
	))
}

func TestServiceAddPhraseDefaultsToPreferredLanguage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	p, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: ScopeOptions{Mode: "sadness"}, Text: " Breathe in "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if diff := cmp.Diff(phrase.Phrase{ID: "mcp-1", Text: "Breathe in"}, p); diff != "" {
		t.Fatalf("phrase (-want +got):\n%s", diff)
	}

	dto, err := svc.Phrases(ctx, ScopeOptions{Mode: "sadness"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	want := &PhrasesDTO{
		Mode:     "sadness",
		Language: "en",
		Method:   "sit",
		Phrases:  []phrase.Phrase{{ID: "s1", Text: "It is okay"}, p},
	}
	if diff := cmp.Diff(want, dto); diff != "" {
		t.Fatalf("phrases (-want +got):\n%s", diff)
	}
}

func TestServicePhasedContent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := svc.SetPhraseHidden(ctx, ScopeOptions{Mode: "panic", Language: "en", Phase: "confrontation"}, "c1", true); err != nil {
		t.Fatalf("hide: %v", err)
	}
	dto, err := svc.Phrases(ctx, ScopeOptions{Mode: "panic", Language: "en"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	if dto.Phases == nil || dto.Phrases != nil {
		t.Fatalf("expected phased content, got %+v", dto)
	}
	if len(dto.Phases.Confrontation) != 0 || len(dto.Phases.Preparation) != 1 {
		t.Fatalf("unexpected phases %+v", dto.Phases)
	}
	if dto.Phases.Reinforcement == nil {
		t.Fatalf("empty phases should be non-nil")
	}

	one, err := svc.Phrases(ctx, ScopeOptions{Mode: "panic", Language: "en", Phase: "preparation"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	if one.Phase != "preparation" || len(one.Phrases) != 1 || one.Phrases[0].ID != "p1" {
		t.Fatalf("unexpected phase result %+v", one)
	}
}

func TestServiceRejectsUnknownModeAndPhase(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Phrases(ctx, ScopeOptions{Mode: "ghost"}); !errors.Is(err, ErrModeNotFound) {
		t.Fatalf("expected ErrModeNotFound, got %v", err)
	}
	if _, err := svc.Phrases(ctx, ScopeOptions{Mode: "panic", Phase: "warmup"}); err == nil {
		t.Fatalf("expected an error for an unknown phase")
	}
	if _, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: ScopeOptions{Mode: "panic"}}); err == nil {
		t.Fatalf("expected an error for empty text")
	}
}

func TestServiceModes(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.CreateMode(ctx, "Commute", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := ModeDTO{ID: "mcp-1", Name: "Commute", Kind: "custom", Method: "sit", CreatedAt: 1740830400000}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Fatalf("created (-want +got):\n%s", diff)
	}

	// Phrases of a custom mode resolve once the mode exists.
	if _, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: ScopeOptions{Mode: "mcp-1", Language: "en"}, Text: "Look outside"}); err != nil {
		t.Fatalf("add phrase: %v", err)
	}

	updated, err := svc.UpdateMode(ctx, "mcp-1", "", "phased")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Method != "phased" || updated.Name != "Commute" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if err := svc.SetModeHidden(ctx, "anger", true); err != nil {
		t.Fatalf("hide: %v", err)
	}
	visible := svc.ListModes(ctx, false)
	all := svc.ListModes(ctx, true)
	if len(visible) != 5 || len(all) != 6 {
		t.Fatalf("expected 5 visible and 6 total modes, got %d and %d", len(visible), len(all))
	}
	if !all[3].Hidden || all[3].ID != "anger" {
		t.Fatalf("anger should be hidden: %+v", all[3])
	}

	if err := svc.DeleteMode(ctx, "panic"); err == nil {
		t.Fatalf("built-in modes cannot be deleted")
	}
	if err := svc.DeleteMode(ctx, "mcp-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.SetModeHidden(ctx, "mcp-1", true); !errors.Is(err, ErrModeNotFound) {
		t.Fatalf("expected ErrModeNotFound after delete, got %v", err)
	}
}

func TestServicePreferences(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	if err := svc.App.Prefs.SetLanguage(ctx, "es-MX"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	want := PreferencesDTO{Theme: "auto", Language: "es"}
	if diff := cmp.Diff(want, svc.Preferences(ctx)); diff != "" {
		t.Fatalf("preferences (-want +got):\n%s", diff)
	}
}

func TestServicePhasedChangesNeedAPhase(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	scope := ScopeOptions{Mode: "panic", Language: "en"}

	if _, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: scope, Text: "Lost"}); !errors.Is(err, app.ErrPhaseRequired) {
		t.Fatalf("add: expected ErrPhaseRequired, got %v", err)
	}
	if err := svc.SetPhraseHidden(ctx, scope, "p1", true); !errors.Is(err, app.ErrPhaseRequired) {
		t.Fatalf("hide: expected ErrPhaseRequired, got %v", err)
	}
	if err := svc.RemovePhrase(ctx, scope, "p1"); !errors.Is(err, app.ErrPhaseRequired) {
		t.Fatalf("remove: expected ErrPhaseRequired, got %v", err)
	}
	if _, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: ScopeOptions{Mode: "sadness", Phase: "preparation"}, Text: "Nope"}); !errors.Is(err, app.ErrNotPhased) {
		t.Fatalf("add to sit mode: expected ErrNotPhased, got %v", err)
	}

	scope.Phase = "reinforcement"
	added, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: scope, Text: "Found"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	dto, err := svc.Phrases(ctx, ScopeOptions{Mode: "panic", Language: "en"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	if dto.Phases == nil || len(dto.Phases.Reinforcement) != 1 || dto.Phases.Reinforcement[0].ID != added.ID {
		t.Fatalf("added phrase should be visible in reinforcement, got %+v", dto)
	}
}

func TestServiceCustomPhasedModeShowsItsPhases(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	steps, err := svc.CreateMode(ctx, "Steps", "phased")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	added, err := svc.AddPhrase(ctx, AddPhraseOptions{
		ScopeOptions: ScopeOptions{Mode: steps.ID, Language: "en", Phase: "preparation"},
		Text:         "Stand up",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.Phrases(ctx, ScopeOptions{Mode: steps.ID, Language: "en"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	if dto.Method != "phased" || dto.Phases == nil {
		t.Fatalf("expected phased content, got %+v", dto)
	}
	if diff := cmp.Diff([]phrase.Phrase{added}, dto.Phases.Preparation); diff != "" {
		t.Fatalf("preparation (-want +got):\n%s", diff)
	}
}

func TestServiceNormalizesLanguage(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: ScopeOptions{Mode: "sadness", Language: "es-MX"}, Text: "Hola"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := svc.App.Phrases.UserPhrases(ctx, "sadness", "es"); len(got) != 1 {
		t.Fatalf("expected phrase stored under es, got %v", got)
	}
	dto, err := svc.Phrases(ctx, ScopeOptions{Mode: "sadness", Language: "es-MX"})
	if err != nil {
		t.Fatalf("phrases: %v", err)
	}
	if dto.Language != "es" || len(dto.Phrases) != 2 {
		t.Fatalf("unexpected phrases %+v", dto)
	}
}
