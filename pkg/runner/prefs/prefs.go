// Package prefs holds the theme and language runners.
package prefs

import (
	"context"
	"fmt"

	"github.com/muesli/termenv"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/prefs"
	"tableflip.dev/anchor/pkg/printers"
)

// Theme prints the theme preference, storing Set first when given. With
// Resolve an auto theme is shown together with what the terminal suggests.
type Theme struct {
	Service *app.Service
	Printer printers.Printer
	Set     string
	Resolve bool

	// DarkBackground reports the terminal background. Nil queries the
	// terminal.
	DarkBackground func() bool
}

func (t *Theme) Do(ctx context.Context) error {
	if t.Set != "" {
		if err := t.Service.Prefs.SetTheme(ctx, prefs.Theme(t.Set)); err != nil {
			return err
		}
	}
	theme := t.Service.Prefs.Theme(ctx)
	value := string(theme)
	if t.Resolve && theme == prefs.ThemeAuto {
		value = fmt.Sprintf("%s (%s)", theme, theme.Resolve(t.darkBackground()))
	}
	t.Printer.Value("theme", value)
	return nil
}

func (t *Theme) darkBackground() bool {
	if t.DarkBackground == nil {
		return termenv.HasDarkBackground()
	}
	return t.DarkBackground()
}

// Language prints the language preference, storing Set first when given.
type Language struct {
	Service *app.Service
	Printer printers.Printer
	Set     string
}

func (l *Language) Do(ctx context.Context) error {
	if l.Set != "" {
		if err := l.Service.Prefs.SetLanguage(ctx, l.Set); err != nil {
			return err
		}
	}
	l.Printer.Value("language", l.Service.Prefs.Language(ctx))
	return nil
}
