package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/htsflow/htsflow/internal/session"
	"github.com/htsflow/htsflow/internal/tui/themes"
)

// Config holds the dependencies for running the chat interface.
type Config struct {
	Session *session.Client
	Theme   themes.Theme
}

// Run starts the chat interface and blocks until the user quits or the
// context is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Session == nil {
		return fmt.Errorf("session is required")
	}

	p := tea.NewProgram(
		newModel(ctx, cfg.Session, cfg.Theme),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface error: %w", err)
	}

	return nil
}
