// Package mcp provides the Model Context Protocol server integration for anchor.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/registry"
)

// ErrModeNotFound is returned when a request names a mode that is neither
// built-in nor a stored custom mode.
var ErrModeNotFound = errors.New("mode not found")

// Service adapts the engine to transport-friendly requests and results.
type Service struct {
	App *app.Service
}

func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// ScopeOptions names a phrase bucket. An empty Language means the stored
// language preference; an empty Phase means flat content.
type ScopeOptions struct {
	Mode     string
	Language string
	Phase    string
}

// AddPhraseOptions captures the parameters used to add a user phrase.
type AddPhraseOptions struct {
	ScopeOptions
	Text      string
	Subphrase string
}

// ModeDTO is a transport-friendly projection of a mode.
type ModeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Method    string `json:"method"`
	Hidden    bool   `json:"hidden"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// PhrasesDTO holds the active content of one scope. Phrases is set for flat
// content and single-phase requests, Phases for whole phased content.
type PhrasesDTO struct {
	Mode     string            `json:"mode"`
	Language string            `json:"language"`
	Method   string            `json:"method"`
	Phase    string            `json:"phase,omitempty"`
	Phrases  []phrase.Phrase   `json:"phrases,omitempty"`
	Phases   *phrase.PhasedSet `json:"phases,omitempty"`
}

// PreferencesDTO reports the stored preferences.
type PreferencesDTO struct {
	Theme              string `json:"theme"`
	Language           string `json:"language"`
	NavigationHintSeen bool   `json:"navigationHintSeen"`
}

func toModeDTO(m mode.Mode, hidden []string) ModeDTO {
	dto := ModeDTO{
		ID:     m.ID(),
		Name:   m.Name(),
		Kind:   "built-in",
		Method: string(m.Method()),
		Hidden: slices.Contains(hidden, m.ID()),
	}
	if c, ok := m.Custom(); ok {
		dto.Kind = "custom"
		dto.CreatedAt = c.CreatedAt.UnixMilli()
	}
	return dto
}

// ListModes returns the visible modes, or every mode when all is set.
func (s *Service) ListModes(ctx context.Context, all bool) []ModeDTO {
	modes := s.App.Modes.VisibleAll(ctx)
	if all {
		modes = s.App.Modes.AllModes(ctx)
	}
	hidden := s.App.Modes.HiddenModes(ctx)

	out := make([]ModeDTO, 0, len(modes))
	for _, m := range modes {
		out = append(out, toModeDTO(m, hidden))
	}
	return out
}

func (s *Service) requireMode(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("mode is required")
	}
	if _, ok := mode.ParseBuiltIn(id); ok {
		return nil
	}
	if _, ok := s.App.Modes.CustomMode(ctx, id); ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrModeNotFound, id)
}

type scope struct {
	mode  string
	lang  string
	phase phrase.Phase
}

// scope validates o. Changes must name a phase exactly when the mode is
// phased so they land in the buckets get_phrases reads.
func (s *Service) scope(ctx context.Context, o ScopeOptions, change bool) (scope, error) {
	if err := s.requireMode(ctx, o.Mode); err != nil {
		return scope{}, err
	}
	lang, err := s.App.Language(ctx, o.Language)
	if err != nil {
		return scope{}, err
	}
	sc := scope{mode: strings.TrimSpace(o.Mode), lang: lang}
	if strings.TrimSpace(o.Phase) != "" {
		if sc.phase, err = phrase.ParsePhase(o.Phase); err != nil {
			return scope{}, err
		}
	}
	if change || sc.phase != "" {
		if err := s.App.CheckPhase(ctx, sc.mode, sc.phase); err != nil {
			return scope{}, err
		}
	}
	return sc, nil
}

// Phrases resolves the active content of a scope.
func (s *Service) Phrases(ctx context.Context, o ScopeOptions) (*PhrasesDTO, error) {
	sc, err := s.scope(ctx, o, false)
	if err != nil {
		return nil, err
	}
	dto := &PhrasesDTO{
		Mode:     sc.mode,
		Language: sc.lang,
		Method:   string(s.App.Modes.ModeMethod(ctx, sc.mode)),
		Phase:    string(sc.phase),
	}

	if sc.phase != "" {
		set, err := s.App.ActivePhrasesByPhase(ctx, sc.mode, sc.lang)
		if err != nil {
			return nil, err
		}
		dto.Phrases = nonNil(set.In(sc.phase))
		return dto, nil
	}

	content, err := s.App.Resolve(ctx, sc.mode, sc.lang)
	if err != nil {
		return nil, err
	}
	if set, ok := content.(phrase.PhasedSet); ok {
		for _, p := range phrase.Phases() {
			set = set.With(p, nonNil(set.In(p)))
		}
		dto.Phases = &set
		return dto, nil
	}
	dto.Phrases = nonNil(content.All())
	return dto, nil
}

// AddPhrase stores a user phrase in the requested scope.
func (s *Service) AddPhrase(ctx context.Context, o AddPhraseOptions) (phrase.Phrase, error) {
	text := strings.TrimSpace(o.Text)
	if text == "" {
		return phrase.Phrase{}, errors.New("text is required")
	}
	sc, err := s.scope(ctx, o.ScopeOptions, true)
	if err != nil {
		return phrase.Phrase{}, err
	}
	sub := strings.TrimSpace(o.Subphrase)
	if sc.phase != "" {
		return s.App.Phrases.AddUserPhraseInPhase(ctx, sc.mode, sc.lang, sc.phase, text, sub)
	}
	return s.App.Phrases.AddUserPhrase(ctx, sc.mode, sc.lang, text, sub)
}

// RemovePhrase deletes a user phrase by id. Unknown ids are ignored.
func (s *Service) RemovePhrase(ctx context.Context, o ScopeOptions, id string) error {
	sc, err := s.scope(ctx, o, true)
	if err != nil {
		return err
	}
	if sc.phase != "" {
		return s.App.Phrases.RemoveUserPhraseInPhase(ctx, sc.mode, sc.lang, sc.phase, id)
	}
	return s.App.Phrases.RemoveUserPhrase(ctx, sc.mode, sc.lang, id)
}

// SetPhraseHidden hides or unhides a built-in phrase.
func (s *Service) SetPhraseHidden(ctx context.Context, o ScopeOptions, id string, hidden bool) error {
	sc, err := s.scope(ctx, o, true)
	if err != nil {
		return err
	}
	r := s.App.Phrases
	switch {
	case hidden && sc.phase != "":
		return r.HidePhraseInPhase(ctx, sc.mode, sc.lang, sc.phase, id)
	case hidden:
		return r.HidePhrase(ctx, sc.mode, sc.lang, id)
	case sc.phase != "":
		return r.UnhidePhraseInPhase(ctx, sc.mode, sc.lang, sc.phase, id)
	default:
		return r.UnhidePhrase(ctx, sc.mode, sc.lang, id)
	}
}

// CreateMode adds a custom mode. An empty method means the default method.
func (s *Service) CreateMode(ctx context.Context, name, method string) (ModeDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ModeDTO{}, errors.New("name is required")
	}
	m := mode.DefaultMethod
	if strings.TrimSpace(method) != "" {
		var err error
		if m, err = mode.ParseMethod(method); err != nil {
			return ModeDTO{}, err
		}
	}
	c, err := s.App.Modes.AddCustomMode(ctx, name, m)
	if err != nil {
		return ModeDTO{}, err
	}
	return toModeDTO(mode.FromCustom(c), nil), nil
}

// UpdateMode renames a custom mode or changes its method. Empty values are
// left unchanged.
func (s *Service) UpdateMode(ctx context.Context, id, name, method string) (ModeDTO, error) {
	var patch registry.Patch
	if name = strings.TrimSpace(name); name != "" {
		patch.Name = &name
	}
	if strings.TrimSpace(method) != "" {
		m, err := mode.ParseMethod(method)
		if err != nil {
			return ModeDTO{}, err
		}
		patch.Method = &m
	}
	c, err := s.App.Modes.UpdateCustomMode(ctx, id, patch)
	if err != nil {
		return ModeDTO{}, err
	}
	return toModeDTO(mode.FromCustom(c), s.App.Modes.HiddenModes(ctx)), nil
}

// DeleteMode removes a custom mode. Built-in modes can only be hidden.
func (s *Service) DeleteMode(ctx context.Context, id string) error {
	if _, ok := mode.ParseBuiltIn(id); ok {
		return fmt.Errorf("%s is a built-in mode and cannot be deleted", id)
	}
	return s.App.Modes.DeleteCustomMode(ctx, id)
}

// SetModeHidden hides or unhides a built-in or custom mode.
func (s *Service) SetModeHidden(ctx context.Context, id string, hidden bool) error {
	if err := s.requireMode(ctx, id); err != nil {
		return err
	}
	if hidden {
		return s.App.Modes.HideMode(ctx, id)
	}
	return s.App.Modes.UnhideMode(ctx, id)
}

func (s *Service) Preferences(ctx context.Context) PreferencesDTO {
	return PreferencesDTO{
		Theme:              string(s.App.Prefs.Theme(ctx)),
		Language:           s.App.Prefs.Language(ctx),
		NavigationHintSeen: s.App.Maintenance.HasSeenNavigationHint(ctx),
	}
}

func nonNil(list []phrase.Phrase) []phrase.Phrase {
	if list == nil {
		return []phrase.Phrase{}
	}
	return list
}
