package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

const defaultWidth = 72

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	// Width wraps phrase text; zero means defaultWidth.
	Width int
}

var (
	spacing = strings.Repeat(" ", len("0190a6f2-7c1e-7d4b-9a3e-4f5c6d7e8f90  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return defaultWidth
	}
	return pp.Width
}

func (pp *PrettyPrint) title(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " phrase")
	default:
		_, _ = c.Fprintln(pp.out(), " phrases")
	}
}

func (pp *PrettyPrint) list(phrases []phrase.Phrase) {
	if len(phrases) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	sub := color.New(color.Faint, color.Italic)
	pad := uint(0)
	if pp.ShowID {
		pad = uint(len(spacing))
	}

	for _, p := range phrases {
		text := wordwrap.String(p.Text, pp.width())
		if pp.ShowID {
			_, _ = y.Fprint(pp.out(), p.ID)
			if n := len(spacing) - len(p.ID); n > 0 {
				_, _ = y.Fprint(pp.out(), strings.Repeat(" ", n))
			} else {
				_, _ = y.Fprint(pp.out(), "  ")
			}
			text = strings.TrimLeft(indent.String(text, pad), " ")
		}
		_, _ = fmt.Fprintln(pp.out(), text)
		if p.Subphrase != "" {
			_, _ = sub.Fprintln(pp.out(), indent.String(wordwrap.String(p.Subphrase, pp.width()), pad+2))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func scopeTitle(modeID, lang string, p phrase.Phase) string {
	if p == "" {
		return fmt.Sprintf("%s (%s)", modeID, lang)
	}
	return fmt.Sprintf("%s (%s) · %s", modeID, lang, p)
}

func (pp *PrettyPrint) Phrases(list PhraseList) {
	pp.title(scopeTitle(list.Mode, list.Language, list.Phase), len(list.Phrases))
	pp.list(list.Phrases)
}

func (pp *PrettyPrint) Phased(list PhasedList) {
	for _, p := range phrase.Phases() {
		pp.Phrases(PhraseList{Mode: list.Mode, Language: list.Language, Phase: p, Phrases: list.Set.In(p)})
	}
}

func (pp *PrettyPrint) Modes(rows []ModeRow) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("NAME"), bold.Sprint("KIND"), bold.Sprint("METHOD"), bold.Sprint("VISIBLE"))
	for _, r := range rows {
		kind := "built-in"
		if r.Mode.Kind() == mode.KindCustom {
			kind = "custom"
		}
		visible := "yes"
		if r.Hidden {
			visible = faint.Sprint("hidden")
		}
		tbl.AddRow(r.Mode.ID(), r.Mode.Name(), kind, string(r.Mode.Method()), visible)
	}

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func (pp *PrettyPrint) Report(r app.ReportResult) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	warn := color.New(color.FgHiRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Theme"), string(r.Theme))
	tbl.AddRow(bold.Sprint("Language"), r.Language)
	tbl.AddRow(bold.Sprint("Hint seen"), fmt.Sprint(r.HintSeen))
	tbl.AddRow(bold.Sprint("Custom modes"), fmt.Sprint(r.CustomModes))
	tbl.AddRow(bold.Sprint("Hidden modes"), fmt.Sprint(r.HiddenModes))
	tbl.AddRow(bold.Sprint("Overlay keys"), fmt.Sprint(r.Keys))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out(), "")

	if len(r.Modes) == 0 {
		_, _ = faint.Fprintln(pp.out(), "No overlays stored.")
		return
	}

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("MODE"), bold.Sprint("SCOPE"), bold.Sprint("ADDED"), bold.Sprint("HIDDEN"), "")
	for _, m := range r.Modes {
		for _, s := range m.Scopes {
			var notes []string
			if m.Hidden {
				notes = append(notes, faint.Sprint("mode hidden"))
			}
			if m.Orphaned {
				notes = append(notes, warn.Sprint("orphaned"))
			}
			if s.Corrupt {
				notes = append(notes, warn.Sprint("corrupt"))
			}
			scope := s.Scope.Language
			if s.Scope.Phase != "" {
				scope += ":" + s.Scope.Phase
			}
			tbl.AddRow(m.Mode, scope, s.User, s.Hidden, strings.Join(notes, ", "))
		}
	}
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func (pp *PrettyPrint) Value(name, value string) {
	_, _ = color.New(color.Bold).Fprintf(pp.out(), "%s: ", name)
	_, _ = fmt.Fprintln(pp.out(), value)
}

func (pp *PrettyPrint) Event(ev store.Event) {
	switch ev.Type {
	case store.EventInvalidated:
		_, _ = color.New(color.FgHiYellow).Fprintln(pp.out(), "* storage changed, reload everything")
	default:
		_, _ = fmt.Fprintf(pp.out(), "~ %s\n", ev.Key)
	}
}
