package theme

import (
	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/anchor/pkg/prefs"
)

// Theme centralizes Lip Gloss styles for the session view.
type Theme struct {
	Phrase    lipgloss.Style
	Subphrase lipgloss.Style
	Header    HeaderTheme
	Footer    FooterTheme
}

// HeaderTheme styles the mode title and phase progress.
type HeaderTheme struct {
	Title    lipgloss.Style
	Phase    lipgloss.Style
	Progress lipgloss.Style
}

// FooterTheme groups styles used by the bottom hint and status line.
type FooterTheme struct {
	Hint   lipgloss.Style
	Status lipgloss.Style
	Prompt lipgloss.Style
	Error  lipgloss.Style
}

// Palette is the set of base colours a theme is built from, as hex strings.
type Palette struct {
	Foreground string
	Background string
	Accent     string
	Error      string
}

var palettes = map[prefs.Theme]Palette{
	prefs.ThemeLight:             {Foreground: "#2b2b2b", Background: "#faf7f2", Accent: "#4f7a5a", Error: "#b3261e"},
	prefs.ThemeDark:              {Foreground: "#e8e6e3", Background: "#1d1f21", Accent: "#8fbf9f", Error: "#f2b8b5"},
	prefs.ThemeHighContrastLight: {Foreground: "#000000", Background: "#ffffff", Accent: "#0033a0", Error: "#a00000"},
	prefs.ThemeHighContrastDark:  {Foreground: "#ffffff", Background: "#000000", Accent: "#ffd400", Error: "#ff6b6b"},
}

// PaletteFor returns the palette of t. Auto must be resolved first; it is
// treated as dark.
func PaletteFor(t prefs.Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[prefs.ThemeDark]
}

// Muted blends the foreground towards the background. High contrast
// palettes blend less so secondary text stays readable.
func (p Palette) Muted(highContrast bool) string {
	fg, err := colorful.Hex(p.Foreground)
	if err != nil {
		return p.Foreground
	}
	bg, err := colorful.Hex(p.Background)
	if err != nil {
		return p.Foreground
	}
	amount := 0.45
	if highContrast {
		amount = 0.2
	}
	return fg.BlendLab(bg, amount).Clamped().Hex()
}

func highContrast(t prefs.Theme) bool {
	return t == prefs.ThemeHighContrastLight || t == prefs.ThemeHighContrastDark
}

// For returns the styles for t.
func For(t prefs.Theme) Theme {
	p := PaletteFor(t)
	muted := lipgloss.Color(p.Muted(highContrast(t)))
	accent := lipgloss.Color(p.Accent)

	return Theme{
		Phrase: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Foreground)).
			Bold(true).
			Align(lipgloss.Center),
		Subphrase: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true).
			Align(lipgloss.Center),
		Header: HeaderTheme{
			Title:    lipgloss.NewStyle().Foreground(accent).Bold(true),
			Phase:    lipgloss.NewStyle().Foreground(accent),
			Progress: lipgloss.NewStyle().Foreground(muted),
		},
		Footer: FooterTheme{
			Hint:   lipgloss.NewStyle().Foreground(accent).Italic(true),
			Status: lipgloss.NewStyle().Foreground(muted),
			Prompt: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)),
		},
	}
}
