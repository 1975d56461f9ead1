// Package mode defines the built-in modes shipped with the app, user-defined
// custom modes, and the display method attached to every mode.
package mode

import (
	"errors"
	"fmt"
	"strings"
)

// BuiltIn identifies a mode shipped with the app. The set is closed.
type BuiltIn string

const (
	Panic     BuiltIn = "panic"
	Anxiety   BuiltIn = "anxiety"
	Sadness   BuiltIn = "sadness"
	Anger     BuiltIn = "anger"
	Grounding BuiltIn = "grounding"
)

// BuiltIns returns the built-in modes in display order.
func BuiltIns() []BuiltIn {
	return []BuiltIn{
		Panic,
		Anxiety,
		Sadness,
		Anger,
		Grounding,
	}
}

// ParseBuiltIn reports whether id names a built-in mode.
func ParseBuiltIn(id string) (BuiltIn, bool) {
	for _, b := range BuiltIns() {
		if string(b) == id {
			return b, true
		}
	}
	return "", false
}

// Method tags how a mode's phrases are displayed.
type Method string

const (
	// MethodSit shows a flat list of phrases to sit with.
	MethodSit Method = "sit"
	// MethodPhased walks through preparation, confrontation and
	// reinforcement phases.
	MethodPhased Method = "phased"

	// DefaultMethod is used whenever no method is known for a mode.
	DefaultMethod = MethodSit
)

// ErrUnknownMethod is returned by ParseMethod.
var ErrUnknownMethod = errors.New("mode: unknown method")

// Methods returns the supported methods.
func Methods() []Method {
	return []Method{MethodSit, MethodPhased}
}

// ParseMethod converts raw to a Method.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, raw)
}

// Valid reports whether m is one of Methods.
func (m Method) Valid() bool {
	for _, candidate := range Methods() {
		if candidate == m {
			return true
		}
	}
	return false
}

var builtInMethods = map[BuiltIn]Method{
	Panic:     MethodPhased,
	Anxiety:   MethodPhased,
	Sadness:   MethodSit,
	Anger:     MethodPhased,
	Grounding: MethodSit,
}

// Method returns the fixed default method of a built-in mode.
func (b BuiltIn) Method() Method {
	if m, ok := builtInMethods[b]; ok {
		return m
	}
	return DefaultMethod
}
