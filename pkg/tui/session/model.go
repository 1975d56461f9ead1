// Package session is the one-phrase-at-a-time view of a mode.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/phrase"
	"tableflip.dev/anchor/pkg/store"
	"tableflip.dev/anchor/pkg/tui/theme"
)

const (
	hintText   = "← → to move · a to add · x to hide or remove · q to quit"
	maxWrap    = 60
	minWrap    = 20
	footerKeys = "← → move · a add · x hide · q quit"
)

// Options configures a session.
type Options struct {
	Mode     string
	Language string
	Theme    theme.Theme
	// Watch reloads the view when storage changes. Backends that cannot
	// watch are ignored.
	Watch bool
}

type step struct {
	phase  phrase.Phase
	phrase phrase.Phrase
	user   bool
}

type loadedMsg struct {
	steps    []step
	showHint bool
	err      error
}

type savedMsg struct {
	status string
	err    error
}

type hintSeenMsg struct{ err error }

type storeEventMsg struct{ store.Event }

type watchClosedMsg struct{}

// Model walks through the active phrases of one mode.
type Model struct {
	ctx    context.Context
	svc    *app.Service
	mode   string
	name   string
	method mode.Method
	lang   string
	theme  theme.Theme
	events <-chan store.Event

	steps    []step
	index    int
	showHint bool
	adding   bool
	input    textinput.Model
	status   string
	err      error

	width  int
	height int
}

// New builds a session for opts.Mode. The mode must be built-in or a stored
// custom mode.
func New(ctx context.Context, svc *app.Service, opts Options) (*Model, error) {
	name, err := modeName(ctx, svc, opts.Mode)
	if err != nil {
		return nil, err
	}
	lang, err := svc.Language(ctx, opts.Language)
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.Placeholder = "Write a phrase…"
	input.Prompt = ""

	m := &Model{
		ctx:    ctx,
		svc:    svc,
		mode:   opts.Mode,
		name:   name,
		method: svc.Modes.ModeMethod(ctx, opts.Mode),
		lang:   lang,
		theme:  opts.Theme,
		input:  input,
	}

	if opts.Watch {
		events, err := svc.Watch(ctx)
		switch {
		case errors.Is(err, app.ErrWatchUnsupported):
		case err != nil:
			return nil, err
		default:
			m.events = events
		}
	}
	return m, nil
}

// modeName is the title shown for id. Built-in ids are title cased since
// their localized names live outside the engine.
func modeName(ctx context.Context, svc *app.Service, id string) (string, error) {
	if b, ok := mode.ParseBuiltIn(id); ok {
		return cases.Title(language.English).String(mode.FromBuiltIn(b).Name()), nil
	}
	if c, ok := svc.Modes.CustomMode(ctx, id); ok {
		return c.Name, nil
	}
	return "", fmt.Errorf("unknown mode %q", id)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.events == nil {
		return m.load()
	}
	return tea.Batch(m.load(), m.waitForEvent())
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		steps, err := m.loadSteps()
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{
			steps:    steps,
			showHint: !m.svc.Maintenance.HasSeenNavigationHint(m.ctx),
		}
	}
}

func (m *Model) loadSteps() ([]step, error) {
	if m.method != mode.MethodPhased {
		active, err := m.svc.ActivePhrases(m.ctx, m.mode, m.lang)
		if err != nil {
			return nil, err
		}
		user := m.svc.Phrases.UserPhrases(m.ctx, m.mode, m.lang)
		return stepsFor("", active, user), nil
	}

	set, err := m.svc.ActivePhrasesByPhase(m.ctx, m.mode, m.lang)
	if err != nil {
		return nil, err
	}
	var steps []step
	for _, p := range phrase.Phases() {
		user := m.svc.Phrases.UserPhrasesInPhase(m.ctx, m.mode, m.lang, p)
		steps = append(steps, stepsFor(p, set.In(p), user)...)
	}
	return steps, nil
}

func stepsFor(p phrase.Phase, active, user []phrase.Phrase) []step {
	steps := make([]step, 0, len(active))
	for _, ph := range active {
		isUser := slices.ContainsFunc(user, func(u phrase.Phrase) bool { return u.ID == ph.ID })
		steps = append(steps, step{phase: p, phrase: ph, user: isUser})
	}
	return steps
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return storeEventMsg{ev}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.steps = msg.steps
			m.showHint = msg.showHint
			m.index = min(m.index, max(len(m.steps)-1, 0))
		}
		return m, nil
	case savedMsg:
		m.status, m.err = msg.status, msg.err
		return m, m.load()
	case hintSeenMsg:
		m.err = msg.err
		return m, nil
	case storeEventMsg:
		return m, tea.Batch(m.load(), m.waitForEvent())
	case watchClosedMsg:
		m.events = nil
		return m, nil
	case tea.KeyPressMsg:
		if m.adding {
			return m.handleAddingKey(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return tea.Quit
	case "right", "l", "n", "space", " ", "enter":
		if m.index < len(m.steps)-1 {
			m.index++
		}
		return m.dismissHint()
	case "left", "h", "p":
		if m.index > 0 {
			m.index--
		}
		return m.dismissHint()
	case "a":
		m.adding = true
		m.status = ""
		m.input.Reset()
		return m.input.Focus()
	case "x":
		return m.hideOrRemove()
	}
	return nil
}

func (m *Model) handleAddingKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		return m, m.add(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) dismissHint() tea.Cmd {
	if !m.showHint {
		return nil
	}
	m.showHint = false
	return func() tea.Msg {
		return hintSeenMsg{err: m.svc.Maintenance.MarkNavigationHintSeen(m.ctx)}
	}
}

// currentPhase is where a new phrase goes: the phase on screen, or the first
// phase when nothing is shown.
func (m *Model) currentPhase() phrase.Phase {
	if m.method != mode.MethodPhased {
		return ""
	}
	if cur, ok := m.current(); ok {
		return cur.phase
	}
	return phrase.Preparation
}

func (m *Model) current() (step, bool) {
	if m.index < 0 || m.index >= len(m.steps) {
		return step{}, false
	}
	return m.steps[m.index], true
}

func (m *Model) add(text string) tea.Cmd {
	p := m.currentPhase()
	return func() tea.Msg {
		var err error
		if p != "" {
			_, err = m.svc.Phrases.AddUserPhraseInPhase(m.ctx, m.mode, m.lang, p, text, "")
		} else {
			_, err = m.svc.Phrases.AddUserPhrase(m.ctx, m.mode, m.lang, text, "")
		}
		return savedMsg{status: "Phrase added.", err: err}
	}
}

func (m *Model) hideOrRemove() tea.Cmd {
	cur, ok := m.current()
	if !ok {
		return nil
	}
	r := m.svc.Phrases
	return func() tea.Msg {
		var err error
		switch {
		case cur.user && cur.phase != "":
			err = r.RemoveUserPhraseInPhase(m.ctx, m.mode, m.lang, cur.phase, cur.phrase.ID)
		case cur.user:
			err = r.RemoveUserPhrase(m.ctx, m.mode, m.lang, cur.phrase.ID)
		case cur.phase != "":
			err = r.HidePhraseInPhase(m.ctx, m.mode, m.lang, cur.phase, cur.phrase.ID)
		default:
			err = r.HidePhrase(m.ctx, m.mode, m.lang, cur.phrase.ID)
		}
		if cur.user {
			return savedMsg{status: "Phrase removed.", err: err}
		}
		return savedMsg{status: "Phrase hidden.", err: err}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	th := m.theme
	wrap := maxWrap
	if m.width > 0 {
		wrap = max(min(m.width-4, maxWrap), minWrap)
	}

	header := th.Header.Title.Render(m.name) + th.Header.Progress.Render(" · "+m.lang)
	body := th.Footer.Status.Render("No phrases. Press a to add one.")
	if cur, ok := m.current(); ok {
		if cur.phase != "" {
			header += th.Header.Phase.Render(" · " + string(cur.phase))
		}
		header += th.Header.Progress.Render(fmt.Sprintf("  %d/%d", m.index+1, len(m.steps)))

		lines := []string{th.Phrase.Width(wrap).Render(cur.phrase.Text)}
		if cur.phrase.Subphrase != "" {
			lines = append(lines, "", th.Subphrase.Width(wrap).Render(cur.phrase.Subphrase))
		}
		body = lipgloss.JoinVertical(lipgloss.Center, lines...)
	}

	var footer string
	switch {
	case m.adding:
		footer = th.Footer.Prompt.Render("New phrase: ") + m.input.View()
	case m.err != nil:
		footer = th.Footer.Error.Render(m.err.Error())
	case m.showHint:
		footer = th.Footer.Hint.Render(hintText)
	case m.status != "":
		footer = th.Footer.Status.Render(m.status)
	default:
		footer = th.Footer.Status.Render(footerKeys)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, header, "", body, "", footer)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
