// Package phrases holds the runners behind the phrases command.
package phrases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/printers"
)

// ErrEmptyText is returned when a phrase has no text after trimming.
var ErrEmptyText = errors.New("phrase text is required")

// Scope names the bucket a runner works on. An empty Language means the
// stored language preference.
type Scope struct {
	Mode     string
	Language string
	Phase    phrase.Phase
}

// resolve returns the normalized language of s. Changes must name a phase
// exactly when the mode is phased; reads may leave it out.
func (s Scope) resolve(ctx context.Context, svc *app.Service, change bool) (string, error) {
	lang, err := svc.Language(ctx, s.Language)
	if err != nil {
		return "", err
	}
	if change || s.Phase != "" {
		if err := svc.CheckPhase(ctx, s.Mode, s.Phase); err != nil {
			return "", err
		}
	}
	return lang, nil
}

// List prints the active phrases of a scope, or only the stored user
// additions when Overlay is set.
type List struct {
	Service *app.Service
	Printer printers.Printer
	Scope
	Overlay bool
}

func (l *List) Do(ctx context.Context) error {
	lang, err := l.resolve(ctx, l.Service, false)
	if err != nil {
		return err
	}

	if l.Overlay {
		r := l.Service.Phrases
		switch {
		case l.Phase != "":
			list := r.UserPhrasesInPhase(ctx, l.Mode, lang, l.Phase)
			l.Printer.Phrases(printers.PhraseList{Mode: l.Mode, Language: lang, Phase: l.Phase, Phrases: list})
		case l.Service.Modes.ModeMethod(ctx, l.Mode) == mode.MethodPhased:
			var set phrase.PhasedSet
			for _, p := range phrase.Phases() {
				set = set.With(p, r.UserPhrasesInPhase(ctx, l.Mode, lang, p))
			}
			l.Printer.Phased(printers.PhasedList{Mode: l.Mode, Language: lang, Set: set})
		default:
			l.Printer.Phrases(printers.PhraseList{Mode: l.Mode, Language: lang, Phrases: r.UserPhrases(ctx, l.Mode, lang)})
		}
		return nil
	}

	if l.Phase != "" {
		set, err := l.Service.ActivePhrasesByPhase(ctx, l.Mode, lang)
		if err != nil {
			return err
		}
		l.Printer.Phrases(printers.PhraseList{Mode: l.Mode, Language: lang, Phase: l.Phase, Phrases: set.In(l.Phase)})
		return nil
	}

	content, err := l.Service.Resolve(ctx, l.Mode, lang)
	if err != nil {
		return err
	}
	switch c := content.(type) {
	case phrase.PhasedSet:
		l.Printer.Phased(printers.PhasedList{Mode: l.Mode, Language: lang, Set: c})
	default:
		l.Printer.Phrases(printers.PhraseList{Mode: l.Mode, Language: lang, Phrases: c.All()})
	}
	return nil
}

// Add stores a new user phrase and prints its id.
type Add struct {
	Service *app.Service
	Printer printers.Printer
	Scope
	Text      string
	Subphrase string
}

func (a *Add) Do(ctx context.Context) error {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return ErrEmptyText
	}
	lang, err := a.resolve(ctx, a.Service, true)
	if err != nil {
		return err
	}
	sub := strings.TrimSpace(a.Subphrase)

	var p phrase.Phrase
	if a.Phase != "" {
		p, err = a.Service.Phrases.AddUserPhraseInPhase(ctx, a.Mode, lang, a.Phase, text, sub)
	} else {
		p, err = a.Service.Phrases.AddUserPhrase(ctx, a.Mode, lang, text, sub)
	}
	if err != nil {
		return err
	}
	a.Printer.Value("id", p.ID)
	return nil
}

// Action is one of the id-based phrase mutations.
type Action int

const (
	Remove Action = iota
	Hide
	Unhide
)

func (a Action) String() string {
	switch a {
	case Remove:
		return "removed"
	case Hide:
		return "hidden"
	case Unhide:
		return "unhidden"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Mutate removes a user phrase, or hides or unhides a built-in one, by id.
type Mutate struct {
	Service *app.Service
	Printer printers.Printer
	Scope
	Action Action
	ID     string
}

func (m *Mutate) Do(ctx context.Context) error {
	lang, err := m.resolve(ctx, m.Service, true)
	if err != nil {
		return err
	}
	r := m.Service.Phrases

	switch {
	case m.Action == Remove && m.Phase == "":
		err = r.RemoveUserPhrase(ctx, m.Mode, lang, m.ID)
	case m.Action == Remove:
		err = r.RemoveUserPhraseInPhase(ctx, m.Mode, lang, m.Phase, m.ID)
	case m.Action == Hide && m.Phase == "":
		err = r.HidePhrase(ctx, m.Mode, lang, m.ID)
	case m.Action == Hide:
		err = r.HidePhraseInPhase(ctx, m.Mode, lang, m.Phase, m.ID)
	case m.Action == Unhide && m.Phase == "":
		err = r.UnhidePhrase(ctx, m.Mode, lang, m.ID)
	case m.Action == Unhide:
		err = r.UnhidePhraseInPhase(ctx, m.Mode, lang, m.Phase, m.ID)
	default:
		err = fmt.Errorf("unknown action %v", m.Action)
	}
	if err != nil {
		return err
	}
	m.Printer.Value(m.Action.String(), m.ID)
	return nil
}
