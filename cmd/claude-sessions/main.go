// Command claude-sessions lists Claude Code sessions across all projects and
// resumes the one you pick.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
	"github.com/xiaoyuanzhu-com/claude-sessions/picker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("claude-sessions failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:           "claude-sessions",
		Short:         "Pick a Claude Code session to resume",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Keep the TUI clean: only warnings and above unless configured otherwise
			if os.Getenv("LOG_LEVEL") == "" && cfg.LogLevel == config.Default().LogLevel {
				cfg.LogLevel = "warn"
			}
			log.Configure(cfg.Env, cfg.LogLevel)

			home, _ := os.UserHomeDir()
			cache := claude.NewSessionIndexCache(cfg.ProjectsDir)

			if printOnly {
				return picker.PrintSessions(cmd.OutOrStdout(), cache.GetAll(), home, time.Now())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			return picker.Run(ctx, cache, picker.Options{
				ClaudeBin: cfg.ClaudeBin,
				HomeDir:   home,
			})
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the session list instead of opening the picker")
	return cmd
}
