// Package printers renders command results as coloured text or JSON.
package printers

import (
	"io"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
)

// Printer renders command results.
type Printer interface {
	Phrases(list PhraseList)
	Phased(list PhasedList)
	Modes(rows []ModeRow)
	Report(r app.ReportResult)
	// Value prints a single named result such as a preference or a new id.
	Value(name, value string)
	Event(ev store.Event)
}

// PhraseList is a flat list of phrases for one scope. Phase is empty unless
// the list belongs to a single phase.
type PhraseList struct {
	Mode     string
	Language string
	Phase    phrase.Phase
	Phrases  []phrase.Phrase
}

// PhasedList is phased content for one mode and language.
type PhasedList struct {
	Mode     string
	Language string
	Set      phrase.PhasedSet
}

// ModeRow is one mode with its visibility.
type ModeRow struct {
	Mode   mode.Mode
	Hidden bool
}

// New returns the JSON printer when asJSON is set and the pretty printer
// otherwise.
func New(out io.Writer, asJSON, showID bool) Printer {
	if asJSON {
		return NewJSON(out)
	}
	return &PrettyPrint{Out: out, ShowID: showID}
}
