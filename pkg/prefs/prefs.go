// Package prefs reads and writes the theme and language preferences. Both
// are stored as plain text rather than JSON.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"tableflip.dev/anchor/pkg/store"
)

// Theme is the user's colour scheme choice. Resolving Auto against the
// system appearance is left to the presentation layer.
type Theme string

const (
	ThemeAuto              Theme = "auto"
	ThemeLight             Theme = "light"
	ThemeDark              Theme = "dark"
	ThemeHighContrastLight Theme = "high-contrast-light"
	ThemeHighContrastDark  Theme = "high-contrast-dark"

	DefaultTheme = ThemeAuto
)

// DefaultLanguage is used until the user picks a language.
const DefaultLanguage = "en"

var (
	ErrInvalidTheme        = errors.New("prefs: invalid theme")
	ErrUnsupportedLanguage = errors.New("prefs: unsupported language")
)

func Themes() []Theme {
	return []Theme{ThemeAuto, ThemeLight, ThemeDark, ThemeHighContrastLight, ThemeHighContrastDark}
}

func (t Theme) Valid() bool {
	return slices.Contains(Themes(), t)
}

// Resolve maps ThemeAuto to ThemeDark or ThemeLight. Other themes are
// returned unchanged.
func (t Theme) Resolve(darkBackground bool) Theme {
	if t != ThemeAuto {
		return t
	}
	if darkBackground {
		return ThemeDark
	}
	return ThemeLight
}

// Dark reports whether t uses light text on a dark background.
func (t Theme) Dark() bool {
	return t == ThemeDark || t == ThemeHighContrastDark
}

// SupportedLanguages lists the base language codes the app ships strings for.
func SupportedLanguages() []string {
	return []string{"en", "es", "fr", "de", "pt"}
}

// NormalizeLanguage reduces code to a supported base language, so "pt-BR"
// becomes "pt".
func NormalizeLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	base, _ := tag.Base()
	if !slices.Contains(SupportedLanguages(), base.String()) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return base.String(), nil
}

type Service struct {
	store store.Adapter
	log   *zap.Logger
}

func New(a store.Adapter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: a, log: log}
}

// Theme returns the stored theme, or DefaultTheme when it is unset or not a
// known value.
func (s *Service) Theme(ctx context.Context) Theme {
	raw, ok := s.read(ctx, store.ThemeKey)
	if !ok {
		return DefaultTheme
	}
	if t := Theme(raw); t.Valid() {
		return t
	}
	s.log.Warn("ignoring unknown theme", zap.String("key", store.ThemeKey), zap.String("value", raw))
	return DefaultTheme
}

func (s *Service) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}
	if err := s.store.Set(ctx, store.ThemeKey, string(t)); err != nil {
		return fmt.Errorf("prefs: set theme: %w", err)
	}
	return nil
}

// Language returns the stored language, or DefaultLanguage when it is unset
// or unsupported.
func (s *Service) Language(ctx context.Context) string {
	raw, ok := s.read(ctx, store.LanguageKey)
	if !ok {
		return DefaultLanguage
	}
	lang, err := NormalizeLanguage(raw)
	if err != nil {
		s.log.Warn("ignoring stored language", zap.String("key", store.LanguageKey), zap.Error(err))
		return DefaultLanguage
	}
	return lang
}

// SetLanguage stores the normalized form of code.
func (s *Service) SetLanguage(ctx context.Context, code string) error {
	lang, err := NormalizeLanguage(code)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, store.LanguageKey, lang); err != nil {
		return fmt.Errorf("prefs: set language: %w", err)
	}
	return nil
}

func (s *Service) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn("reading preference failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, ok
}
