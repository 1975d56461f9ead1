package printers

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

// JSONPrint writes one indented JSON document per call.
type JSONPrint struct {
	enc *json.Encoder
}

func NewJSON(out io.Writer) *JSONPrint {
	if out == nil {
		out = color.Output
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return &JSONPrint{enc: enc}
}

type phraseListJSON struct {
	Mode     string          `json:"mode"`
	Language string          `json:"language"`
	Phase    phrase.Phase    `json:"phase,omitempty"`
	Phrases  []phrase.Phrase `json:"phrases"`
}

type phasedListJSON struct {
	Mode     string           `json:"mode"`
	Language string           `json:"language"`
	Phases   phrase.PhasedSet `json:"phases"`
}

type modeJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Method    mode.Method     `json:"method"`
	Hidden    bool            `json:"hidden"`
	CreatedAt *mode.Timestamp `json:"createdAt,omitempty"`
}

type scopeJSON struct {
	Language string `json:"language"`
	Phase    string `json:"phase,omitempty"`
	Added    int    `json:"added"`
	Hidden   int    `json:"hidden"`
	Corrupt  bool   `json:"corrupt,omitempty"`
}

type modeReportJSON struct {
	Mode     string      `json:"mode"`
	Hidden   bool        `json:"hidden,omitempty"`
	Orphaned bool        `json:"orphaned,omitempty"`
	Scopes   []scopeJSON `json:"scopes"`
}

type reportJSON struct {
	Theme       string           `json:"theme"`
	Language    string           `json:"language"`
	HintSeen    bool             `json:"hintSeen"`
	CustomModes int              `json:"customModes"`
	HiddenModes int              `json:"hiddenModes"`
	Keys        int              `json:"overlayKeys"`
	Modes       []modeReportJSON `json:"modes"`
}

type eventJSON struct {
	Event string `json:"event"`
	Key   string `json:"key,omitempty"`
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func (jp *JSONPrint) Phrases(list PhraseList) {
	_ = jp.enc.Encode(phraseListJSON{
		Mode:     list.Mode,
		Language: list.Language,
		Phase:    list.Phase,
		Phrases:  nonNil(list.Phrases),
	})
}

func (jp *JSONPrint) Phased(list PhasedList) {
	set := list.Set
	for _, p := range phrase.Phases() {
		set = set.With(p, nonNil(set.In(p)))
	}
	_ = jp.enc.Encode(phasedListJSON{Mode: list.Mode, Language: list.Language, Phases: set})
}

func (jp *JSONPrint) Modes(rows []ModeRow) {
	out := make([]modeJSON, 0, len(rows))
	for _, r := range rows {
		m := modeJSON{
			ID:     r.Mode.ID(),
			Name:   r.Mode.Name(),
			Kind:   "built-in",
			Method: r.Mode.Method(),
			Hidden: r.Hidden,
		}
		if c, ok := r.Mode.Custom(); ok {
			m.Kind = "custom"
			m.CreatedAt = &c.CreatedAt
		}
		out = append(out, m)
	}
	_ = jp.enc.Encode(out)
}

func (jp *JSONPrint) Report(r app.ReportResult) {
	out := reportJSON{
		Theme:       string(r.Theme),
		Language:    r.Language,
		HintSeen:    r.HintSeen,
		CustomModes: r.CustomModes,
		HiddenModes: r.HiddenModes,
		Keys:        r.Keys,
		Modes:       make([]modeReportJSON, 0, len(r.Modes)),
	}
	for _, m := range r.Modes {
		mr := modeReportJSON{Mode: m.Mode, Hidden: m.Hidden, Orphaned: m.Orphaned, Scopes: make([]scopeJSON, 0, len(m.Scopes))}
		for _, s := range m.Scopes {
			mr.Scopes = append(mr.Scopes, scopeJSON{
				Language: s.Scope.Language,
				Phase:    s.Scope.Phase,
				Added:    s.User,
				Hidden:   s.Hidden,
				Corrupt:  s.Corrupt,
			})
		}
		out.Modes = append(out.Modes, mr)
	}
	_ = jp.enc.Encode(out)
}

func (jp *JSONPrint) Value(name, value string) {
	_ = jp.enc.Encode(map[string]string{name: value})
}

func (jp *JSONPrint) Event(ev store.Event) {
	out := eventJSON{Event: "changed", Key: ev.Key}
	if ev.Type == store.EventInvalidated {
		out.Event = "invalidated"
	}
	_ = jp.enc.Encode(out)
}
