package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/prefs"
)

var (
	// ErrPhaseRequired is returned when a change to a phased mode names no
	// phase.
	ErrPhaseRequired = errors.New("app: phased mode needs a phase")

	// ErrNotPhased is returned when a phase is named for a mode shown as a
	// single list.
	ErrNotPhased = errors.New("app: mode has no phases")
)

// Language returns the overlay language for code, reduced to its supported
// base so "es-MX" and the stored "es" preference share buckets. An empty
// code means the stored preference.
func (s *Service) Language(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return s.Prefs.Language(ctx), nil
	}
	return prefs.NormalizeLanguage(code)
}

// CheckPhase reports whether p names a bucket that Resolve reads for
// modeID. Phased modes keep every phase in its own bucket and need one;
// sit modes have none.
func (s *Service) CheckPhase(ctx context.Context, modeID string, p phrase.Phase) error {
	phased := s.Modes.ModeMethod(ctx, modeID) == mode.MethodPhased
	switch {
	case phased && p == "":
		return fmt.Errorf("%w: %s", ErrPhaseRequired, modeID)
	case !phased && p != "":
		return fmt.Errorf("%w: %s", ErrNotPhased, modeID)
	}
	return nil
}
