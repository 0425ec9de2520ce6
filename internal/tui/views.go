package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/htsflow/htsflow/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}

	if errText := m.session.Err(); errText != "" {
		sections = append(sections, m.theme.ErrorBanner.Width(m.contentWidth()).Render(errText))
	}

	sections = append(sections,
		m.theme.InputBorder.Width(m.contentWidth()).Render(m.textarea.View()),
		m.renderFooter(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the title line with session and loading status.
func (m Model) renderHeader() string {
	title := m.theme.Title.Render("htsflow")
	subtitle := m.theme.Subtitle.Render("conversational tariff classification")

	var status string
	switch {
	case m.session.Loading():
		status = m.spinner.View() + m.theme.StatusPending.Render(" classifying...")
	case m.status != "":
		status = m.theme.Subtitle.Render(m.status)
	case m.session.SessionID() != "":
		status = m.theme.Subtitle.Render("session " + m.session.SessionID())
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", subtitle, "  ", status)
	divider := m.theme.HelpText.Render(strings.Repeat("─", max(m.width, 1)))

	return lipgloss.JoinVertical(lipgloss.Left, line, divider)
}

// renderFooter renders context-sensitive key help.
func (m Model) renderFooter() string {
	var hints []string
	if m.focus == FocusResults {
		hints = []string{"↑/↓ cards", "Enter/Space expand", "y copy code", "Tab input", "Ctrl+N new chat", "Esc quit"}
	} else {
		hints = []string{"Enter send", "Ctrl+N new chat"}
		if len(m.resultLists) > 0 {
			hints = append(hints, "Tab browse results")
		}
		hints = append(hints, "Esc quit")
	}

	return m.theme.HelpText.Render(strings.Join(hints, " • "))
}

// refreshViewport re-renders the thread into the viewport.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderThread())
}

// renderThread renders the full message thread in display order: user
// bubbles right-aligned, assistant blocks left-aligned.
func (m *Model) renderThread() string {
	messages := m.session.Messages()
	if len(messages) == 0 {
		return m.theme.StatusPending.Render("\n  Describe a product and I'll find its tariff classification.\n")
	}

	blocks := make([]string, 0, len(messages))
	resultIndex := 0

	for _, msg := range messages {
		switch {
		case msg.IsUser():
			blocks = append(blocks, m.renderUserMessage(msg))
		case msg.Type == model.TypeQuestion:
			blocks = append(blocks, m.renderQuestionMessage(msg))
		case msg.Type == model.TypeResult:
			blocks = append(blocks, m.renderResultMessage(msg, resultIndex))
			resultIndex++
		}
	}

	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderUserMessage(msg model.Message) string {
	bubble := m.theme.UserBubble.MaxWidth(m.contentWidth() * 3 / 4).Render(msg.Content)
	return lipgloss.PlaceHorizontal(m.contentWidth(), lipgloss.Right, bubble)
}

func (m *Model) renderQuestionMessage(msg model.Message) string {
	label := m.theme.AssistantLabel.Render("htsflow")
	block := m.theme.QuestionBlock.MaxWidth(m.contentWidth() * 3 / 4).Render(msg.Question)
	return lipgloss.JoinVertical(lipgloss.Left, label, block)
}

func (m *Model) renderResultMessage(msg model.Message, resultIndex int) string {
	label := m.theme.AssistantLabel.Render("htsflow")

	var body string
	if resultIndex < len(m.resultLists) {
		body = m.resultLists[resultIndex].View()
	}

	parts := []string{label, body}
	if msg.Analysis != "" {
		parts = append(parts, m.theme.AnalysisBlock.MaxWidth(m.contentWidth()).Render(msg.Analysis))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
