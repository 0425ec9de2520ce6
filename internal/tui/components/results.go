// Package components contains the reusable pieces of the chat TUI.
package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/htsflow/htsflow/internal/hts"
	"github.com/htsflow/htsflow/internal/model"
	"github.com/htsflow/htsflow/internal/tui/themes"
)

// ResultListModel renders one result message's ranked candidates as
// expandable cards. Expansion and selection are ephemeral UI state; the
// backend's ranking order is never altered.
type ResultListModel struct {
	theme    themes.Theme
	results  []model.ClassificationResult
	expanded []bool
	selected int
	width    int
	focused  bool
}

// NewResultListModel creates a card list with the first card expanded.
func NewResultListModel(results []model.ClassificationResult, theme themes.Theme) ResultListModel {
	expanded := make([]bool, len(results))
	if len(expanded) > 0 {
		expanded[0] = true
	}

	return ResultListModel{
		theme:    theme,
		results:  results,
		expanded: expanded,
		width:    80,
	}
}

// Update handles navigation and expansion keys while focused.
func (m ResultListModel) Update(msg tea.Msg) (ResultListModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.results) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.results)-1 {
			m.selected++
		}
	case "enter", " ":
		m.expanded[m.selected] = !m.expanded[m.selected]
	}

	return m, nil
}

// View renders the card list.
func (m ResultListModel) View() string {
	if len(m.results) == 0 {
		return ""
	}

	cards := make([]string, 0, len(m.results))
	for i, result := range m.results {
		cards = append(cards, m.renderCard(i, result))
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderCard renders a single candidate, expanded or collapsed.
func (m ResultListModel) renderCard(index int, result model.ClassificationResult) string {
	badge := m.renderBadge(result.ConfidenceScore)
	marker := "▸"
	if m.expanded[index] {
		marker = "▾"
	}

	header := fmt.Sprintf("%s %d. %s  %s",
		marker,
		index+1,
		m.theme.Bold.Render(result.HTSCode),
		badge,
	)

	if !m.expanded[index] {
		line := header + "  " + m.theme.Subtitle.Render(truncate(result.Description, m.width-len(result.HTSCode)-16))
		if m.focused && index == m.selected {
			return m.theme.Selected.Render("›") + " " + line
		}
		return "  " + m.theme.CardCollapsed.Render(line)
	}

	rows := []string{
		header,
		m.theme.Normal.Render(wrap(result.Description, m.width-6)),
		"",
		m.renderDetailRow("Duty", result.EffectiveDuty),
	}

	if result.SpecialDuty != "" {
		rows = append(rows, m.renderDetailRow("Special duty", result.SpecialDuty))
	}
	if result.Unit != "" {
		rows = append(rows, m.renderDetailRow("Unit", result.Unit))
	}

	chapter := result.Chapter
	if chapter == "" {
		chapter = hts.Chapter(result.HTSCode)
	}
	rows = append(rows,
		m.renderDetailRow("Chapter", chapter),
		m.renderDetailRow("Match", string(result.MatchType)),
		m.renderDetailRow("Duty source", string(result.DutySource)),
		m.renderDetailRow("Verify", m.theme.Link.Render(hts.VerificationURL(result.HTSCode))),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	style := m.theme.CardExpanded
	if m.focused && index == m.selected {
		style = m.theme.CardSelected
	}

	return style.Width(m.width - 4).Render(content)
}

// renderBadge renders the confidence badge for a score.
func (m ResultListModel) renderBadge(score int) string {
	tier := model.TierForScore(score)
	return m.theme.BadgeStyle(tier).Render(fmt.Sprintf("[%d%% %s]", score, tier))
}

func (m ResultListModel) renderDetailRow(label, value string) string {
	return fmt.Sprintf("%s %s",
		m.theme.Subtitle.Render(fmt.Sprintf("%-12s", label+":")),
		value,
	)
}

// Focus sets whether the list receives key events.
func (m *ResultListModel) Focus(focused bool) {
	m.focused = focused
}

// Focused reports whether the list receives key events.
func (m ResultListModel) Focused() bool {
	return m.focused
}

// Resize updates the render width.
func (m *ResultListModel) Resize(width int) {
	if width < 20 {
		width = 20
	}
	m.width = width
}

// SelectedResult returns the currently selected candidate.
func (m ResultListModel) SelectedResult() (model.ClassificationResult, bool) {
	if len(m.results) == 0 {
		return model.ClassificationResult{}, false
	}
	return m.results[m.selected], true
}

// Expanded reports the expansion state of a card, for tests and rendering.
func (m ResultListModel) Expanded(index int) bool {
	if index < 0 || index >= len(m.expanded) {
		return false
	}
	return m.expanded[index]
}

// Selected returns the selected card index.
func (m ResultListModel) Selected() int {
	return m.selected
}

// Utility functions

func truncate(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)

	return strings.Join(lines, "\n")
}
