// Package phrase defines grounding phrases and the two shapes content comes
// in: a flat list, or a list grouped into three phases.
package phrase

import (
	"fmt"
	"strings"
)

// Phrase is one grounding phrase. ID is unique within its
// (mode, language, phase) bucket.
type Phrase struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Subphrase string `json:"subphrase,omitempty" yaml:"subphrase,omitempty"`
}

// Phase is one ordered stage of phased content.
type Phase string

const (
	Preparation   Phase = "preparation"
	Confrontation Phase = "confrontation"
	Reinforcement Phase = "reinforcement"
)

// Phases returns the phases in display order.
func Phases() []Phase {
	return []Phase{Preparation, Confrontation, Reinforcement}
}

// ParsePhase converts raw to a Phase.
func ParsePhase(raw string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range Phases() {
		if candidate == p {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("phrase: unknown phase %q", raw)
}

// Content is either Flat or PhasedSet.
type Content interface {
	// All returns every phrase, phases concatenated in order.
	All() []Phrase
	Empty() bool
	content()
}

// Flat is content without phases.
type Flat []Phrase

func (f Flat) All() []Phrase { return []Phrase(f) }
func (f Flat) Empty() bool   { return len(f) == 0 }
func (Flat) content()        {}

// PhasedSet is content grouped by phase. Each phase is resolved on its own.
type PhasedSet struct {
	Preparation   []Phrase `json:"preparation" yaml:"preparation"`
	Confrontation []Phrase `json:"confrontation" yaml:"confrontation"`
	Reinforcement []Phrase `json:"reinforcement" yaml:"reinforcement"`
}

// In returns the phrases of phase p.
func (s PhasedSet) In(p Phase) []Phrase {
	switch p {
	case Preparation:
		return s.Preparation
	case Confrontation:
		return s.Confrontation
	case Reinforcement:
		return s.Reinforcement
	default:
		return nil
	}
}

// With returns a copy of s with phase p replaced by list.
func (s PhasedSet) With(p Phase, list []Phrase) PhasedSet {
	switch p {
	case Preparation:
		s.Preparation = list
	case Confrontation:
		s.Confrontation = list
	case Reinforcement:
		s.Reinforcement = list
	}
	return s
}

func (s PhasedSet) All() []Phrase {
	all := make([]Phrase, 0, len(s.Preparation)+len(s.Confrontation)+len(s.Reinforcement))
	for _, p := range Phases() {
		all = append(all, s.In(p)...)
	}
	return all
}

func (s PhasedSet) Empty() bool {
	return len(s.Preparation) == 0 && len(s.Confrontation) == 0 && len(s.Reinforcement) == 0
}

func (PhasedSet) content() {}
