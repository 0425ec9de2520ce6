package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/htsflow/htsflow/internal/archive"
	"github.com/htsflow/htsflow/internal/cli"
	"github.com/htsflow/htsflow/internal/common"
	"github.com/htsflow/htsflow/internal/config"
	"github.com/htsflow/htsflow/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent classification exchanges",
		Long: `List recent exchanges from the local history archive, newest first.

The archive is a local log only; it never restores past conversations.`,
		RunE: runHistory,
	}

	cmd.Flags().Int("limit", 20, "maximum number of exchanges to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if !viper.GetBool("history.enabled") {
		return common.ErrHistoryDisabled
	}

	dbPath := config.ExpandPath(viper.GetString("history.path"))
	store, err := archive.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history archive: %w", err)
	}
	defer func() { _ = store.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No exchanges recorded yet."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Classification History"))
	for _, entry := range entries {
		when := entry.CreatedAt.Local().Format("2006-01-02 15:04")

		switch entry.ResponseType {
		case model.TypeResult:
			badge := cli.ConfidenceStyle(entry.Confidence).
				Render(fmt.Sprintf("[%d%% %s]", entry.Confidence, model.TierForScore(entry.Confidence)))
			fmt.Fprintf(out, "%s  %s  %s\n", cli.SubtleStyle.Render(when), cli.CodeStyle.Render(entry.HTSCode), badge)
			fmt.Fprintf(out, "    %s\n", entry.Query)
		case model.TypeQuestion:
			fmt.Fprintf(out, "%s  %s\n", cli.SubtleStyle.Render(when), cli.QuestionIcon+" needed clarification")
			fmt.Fprintf(out, "    %s\n", entry.Query)
		}
	}

	return nil
}
