package titler

import (
	"context"

	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

// RunResult summarizes one pass over all projects.
type RunResult struct {
	RunID       string
	Files       int
	FailedFiles int
	Updated     int
	WouldTitle  int
}

// Runner drives the Updater over every project index under the root directory.
type Runner struct {
	updater *Updater
	rootDir string
}

// NewRunner creates a runner over cfg.IndexRootDir.
func NewRunner(updater *Updater, cfg config.TitlerConfig) *Runner {
	return &Runner{
		updater: updater,
		rootDir: cfg.IndexRootDir,
	}
}

// RunOnce discovers the index files and processes them one at a time. A file
// that fails is logged and the run continues; an unreadable root yields an
// empty result. The only error returned is ctx's.
func (r *Runner) RunOnce(ctx context.Context, dryRun bool) (RunResult, error) {
	result := RunResult{RunID: uuid.NewString()}
	logger := log.Logger().With().Str("runId", result.RunID).Logger()

	paths, err := claude.DiscoverIndexFiles(r.rootDir)
	if err != nil {
		logger.Error().Err(err).Str("root", r.rootDir).Msg("no session indexes to process")
		return result, nil
	}

	logger.Info().
		Str("root", r.rootDir).
		Int("indexes", len(paths)).
		Bool("dryRun", dryRun).
		Msg("starting title run")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fileResult, err := r.updater.ProcessIndexFile(ctx, path, dryRun)
		result.Files++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			logger.Error().Err(err).Str("path", path).Msg("failed to process session index")
			result.FailedFiles++
			continue
		}
		result.Updated += fileResult.Updated
		result.WouldTitle += fileResult.WouldTitle
	}

	event := logger.Info().Int("indexes", result.Files).Int("failedIndexes", result.FailedFiles)
	if dryRun {
		event.Int("wouldTitle", result.WouldTitle).Msg("dry run complete")
	} else {
		event.Int("updated", result.Updated).Msg("title run complete")
	}

	return result, nil
}
