package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htsflow/htsflow/internal/tui"
	"github.com/htsflow/htsflow/internal/tui/themes"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Classify products interactively",
		Long: `Start an interactive chat with the classification service.

Describe a product and get ranked HTS candidates, or answer the
classifier's clarifying questions. Press ctrl+n for a fresh
conversation, tab to browse result cards, and y to copy a code.`,
		RunE: runChat,
	}

	cmd.Flags().String("theme", "", "color theme (default, catppuccin-mocha)")
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runChat(cmd *cobra.Command, _ []string) error {
	backend, err := newBackendClient()
	if err != nil {
		return err
	}

	store := openArchive()
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if err := tui.Run(cmd.Context(), tui.Config{
		Session: newSession(backend, store),
		Theme:   themes.ByName(viper.GetString("ui.theme")),
	}); err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	return nil
}
