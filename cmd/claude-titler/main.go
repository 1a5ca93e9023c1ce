// Command claude-titler generates short titles for Claude Code sessions using
// a local OpenAI-compatible model endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
	"github.com/xiaoyuanzhu-com/claude-sessions/titler"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the root command with args and returns the process exit code.
// Cobra's own error printing is silenced, so failures are reported here.
func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("claude-titler failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "claude-titler",
		Short: "Generate titles for Claude Code sessions",
		Long: `Scans every sessions-index.json under the Claude projects directory and
asks a local model for a 3-6 word title for each session that has none, or
whose title is older than its latest activity.

Configuration is read from ~/.config/claude-titler/config.yaml (or
$CLAUDE_TITLER_CONFIG) and TITLER_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			log.Configure(cfg.Env, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			run(ctx, cfg.Titler(), dryRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show which sessions would be titled without calling the model or writing files")
	return cmd
}

// run performs one titling pass. Failures are logged; the exit status stays 0.
func run(ctx context.Context, cfg config.TitlerConfig, dryRun bool) {
	runner := titler.NewRunner(titler.NewUpdater(titler.NewGenerator(cfg), cfg), cfg)

	if _, err := runner.RunOnce(ctx, dryRun); err != nil {
		log.Warn().Err(err).Msg("title run interrupted")
	}
}
