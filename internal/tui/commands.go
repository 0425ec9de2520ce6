package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atotto/clipboard"
)

// sendTurn runs one chat turn against the session client. The session owns
// all resulting state; the message just tells the UI to re-render.
func (m Model) sendTurn(text string) tea.Cmd {
	return func() tea.Msg {
		accepted := m.session.SendMessage(m.ctx, text)
		return turnDoneMsg{accepted: accepted}
	}
}

// copyCode copies an HTS code to the system clipboard. Fire-and-forget:
// failure is reported to the UI for logging only, never as a thread error.
func copyCode(code string) tea.Cmd {
	return func() tea.Msg {
		return codeCopiedMsg{code: code, err: clipboard.WriteAll(code)}
	}
}
