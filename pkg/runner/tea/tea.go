package teaui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/termenv"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/tui/session"
	"tableflip.dev/anchor/pkg/tui/theme"
)

// Session runs the full-screen phrase view for one mode.
type Session struct {
	Service  *app.Service
	Mode     string
	Language string
	Watch    bool
}

func (s *Session) Do(ctx context.Context) error {
	th := s.Service.Prefs.Theme(ctx).Resolve(termenv.HasDarkBackground())

	m, err := session.New(ctx, s.Service, session.Options{
		Mode:     s.Mode,
		Language: s.Language,
		Theme:    theme.For(th),
		Watch:    s.Watch,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
