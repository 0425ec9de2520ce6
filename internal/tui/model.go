// Package tui implements the interactive chat interface for conversational
// tariff classification.
package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/htsflow/htsflow/internal/model"
	"github.com/htsflow/htsflow/internal/session"
	"github.com/htsflow/htsflow/internal/tui/components"
	"github.com/htsflow/htsflow/internal/tui/themes"
)

// Focus identifies which area receives key events.
type Focus int

// Focus targets.
const (
	FocusInput Focus = iota
	FocusResults
)

// Model holds the chat TUI state. Conversation data lives in the session
// client; the model owns only presentation state (viewport, input, card
// expansion, focus).
type Model struct {
	ctx         context.Context
	session     *session.Client
	theme       themes.Theme
	keymap      KeyMap
	viewport    viewport.Model
	textarea    textarea.Model
	spinner     spinner.Model
	resultLists []components.ResultListModel
	status      string
	width       int
	height      int
	focus       Focus
	ready       bool
	quitting    bool
}

// newModel creates the chat model around a session client.
func newModel(ctx context.Context, sess *session.Client, theme themes.Theme) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe a product to classify..."
	ta.Prompt = ""
	ta.CharLimit = 2000
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
	)

	return Model{
		ctx:      ctx,
		session:  sess,
		theme:    theme,
		keymap:   DefaultKeyMap(),
		textarea: ta,
		spinner:  sp,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tea.EnterAltScreen)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case turnDoneMsg:
		return m.handleTurnDone(msg), nil

	case codeCopiedMsg:
		if msg.err != nil {
			// Not a conversation-level failure; swallow it.
			slog.Debug("clipboard copy failed", "error", msg.err)
			return m, nil
		}
		m.status = "Copied " + msg.code
		return m, nil

	case spinner.TickMsg:
		if !m.session.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleKey routes keyboard input by focus area.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.NewChat):
		m.session.StartNewChat()
		m.resultLists = nil
		m.focus = FocusInput
		m.status = ""
		m.textarea.Reset()
		m.textarea.Focus()
		m.handleResize()
		return m, nil

	case key.Matches(msg, m.keymap.FocusToggle):
		m.toggleFocus()
		return m, nil
	}

	if m.focus == FocusResults && len(m.resultLists) > 0 {
		return m.handleResultsKey(msg)
	}

	return m.handleInputKey(msg)
}

// handleResultsKey routes keys to the latest result card list.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.resultLists) - 1

	if key.Matches(msg, m.keymap.CopyCode) {
		if result, ok := m.resultLists[last].SelectedResult(); ok {
			return m, copyCode(result.HTSCode)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.resultLists[last], cmd = m.resultLists[last].Update(msg)
	m.refreshViewport()
	return m, cmd
}

// handleInputKey routes keys to the input bar.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Send) {
		// The session enforces single-flight; this guard just keeps the
		// input from clearing while a turn is pending.
		if m.session.Loading() {
			return m, nil
		}

		text := strings.TrimSpace(m.textarea.Value())
		if text == "" {
			return m, nil
		}

		m.textarea.Reset()
		m.status = ""
		return m, tea.Batch(m.sendTurn(text), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleTurnDone updates presentation state after a chat turn resolves.
func (m Model) handleTurnDone(msg turnDoneMsg) Model {
	if msg.accepted {
		messages := m.session.Messages()
		if len(messages) > 0 {
			last := messages[len(messages)-1]
			if last.Role == model.RoleAssistant && last.Type == model.TypeResult {
				list := components.NewResultListModel(last.Results, m.theme)
				list.Resize(m.contentWidth())
				m.resultLists = append(m.resultLists, list)
			}
		}
	}

	m.handleResize()
	m.viewport.GotoBottom()
	return m
}

// toggleFocus moves focus between the input bar and the latest result list.
func (m *Model) toggleFocus() {
	if len(m.resultLists) == 0 {
		return
	}

	last := len(m.resultLists) - 1
	if m.focus == FocusInput {
		m.focus = FocusResults
		m.textarea.Blur()
		m.resultLists[last].Focus(true)
	} else {
		m.focus = FocusInput
		m.textarea.Focus()
		m.resultLists[last].Focus(false)
	}
	m.refreshViewport()
}

// handleResize recomputes layout and re-renders the thread.
func (m *Model) handleResize() {
	headerHeight := 2
	inputHeight := 3
	footerHeight := 1
	errHeight := 0
	if m.session.Err() != "" {
		errHeight = 3
	}

	viewportHeight := m.height - headerHeight - inputHeight - footerHeight - errHeight
	if viewportHeight < 3 {
		viewportHeight = 3
	}

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, viewportHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}

	m.textarea.SetWidth(m.contentWidth())
	for i := range m.resultLists {
		m.resultLists[i].Resize(m.contentWidth())
	}

	m.refreshViewport()
}

// contentWidth is the usable width inside bordered blocks.
func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	return w
}
