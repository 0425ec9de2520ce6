package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/htsflow/htsflow/internal/api"
	"github.com/htsflow/htsflow/internal/cli"
	"github.com/htsflow/htsflow/internal/common"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the classification backend",
		Long: `Check whether the classification backend is reachable and ready.

With --wait, polls with backoff until the backend reports healthy or the
attempts are exhausted. Useful when the backend is still starting up.`,
		RunE: runHealth,
	}

	cmd.Flags().Bool("wait", false, "poll until the backend is healthy")
	cmd.Flags().Int("attempts", 10, "maximum poll attempts with --wait")

	return cmd
}

func runHealth(cmd *cobra.Command, _ []string) error {
	backend, err := newBackendClient()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	var status *api.HealthStatus
	check := func() error {
		s, err := backend.Health(ctx)
		if err != nil {
			return err
		}
		if !s.Healthy() {
			return fmt.Errorf("backend not ready (status %q, agent_ready %t)", s.Status, s.AgentReady)
		}
		status = s
		return nil
	}

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		attempts, _ := cmd.Flags().GetInt("attempts")
		err = common.WithRetry(ctx, check, common.RetryOptions{
			MaxAttempts:  attempts,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
		})
	} else {
		err = check()
	}
	if err != nil {
		fmt.Fprintln(out, cli.FormatError("Backend is not healthy"))
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Backend is healthy (version %s)", status.Version)))

	caps, err := backend.Capabilities(ctx)
	if err != nil {
		fmt.Fprintln(out, cli.FormatWarning("Could not fetch capabilities: "+err.Error()))
		return nil
	}
	names := make([]string, 0, len(caps.Capabilities))
	for name := range caps.Capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		icon := cli.SuccessIcon
		if !caps.Capabilities[name] {
			icon = cli.ErrorIcon
		}
		fmt.Fprintf(out, "  %s %s\n", icon, name)
	}

	return nil
}
