package titler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

// TitleGenerator produces a title for a conversation excerpt.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, conversationText string) (string, error)
}

// FileResult summarizes one processed index file.
type FileResult struct {
	Path         string
	Entries      int
	NeverTitled  int
	NeedsRetitle int
	Skipped      int // empty excerpt or unreadable log
	Failed       int // generator produced nothing
	WouldTitle   int // dry-run only
	Updated      int
}

// Updater applies the eligibility policy and title generation to one index file.
type Updater struct {
	generator   TitleGenerator
	maxChars    int
	numMessages int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewUpdater creates an updater using cfg's excerpt bounds.
func NewUpdater(generator TitleGenerator, cfg config.TitlerConfig) *Updater {
	return &Updater{
		generator:   generator,
		maxChars:    cfg.MaxChars,
		numMessages: cfg.NumMessages,
		now:         time.Now,
		logger:      log.Logger(),
	}
}

// ProcessIndexFile titles every eligible entry of the index at path. The
// index is rewritten once, after all candidates, and only when at least one
// entry changed and dryRun is false. A malformed index is returned as an error.
func (u *Updater) ProcessIndexFile(ctx context.Context, path string, dryRun bool) (FileResult, error) {
	result := FileResult{Path: path}

	index, err := claude.ReadSessionIndex(path)
	if err != nil {
		return result, err
	}
	result.Entries = len(index.Entries)

	var candidates []*models.SessionIndexEntry
	for _, entry := range index.Entries {
		if entry == nil || !ShouldProcessSession(entry) {
			continue
		}
		if entry.HasCustomTitle() {
			result.NeedsRetitle++
		} else {
			result.NeverTitled++
		}
		candidates = append(candidates, entry)
	}

	logger := u.logger.With().Str("path", path).Logger()
	logger.Info().
		Int("entries", result.Entries).
		Int("neverTitled", result.NeverTitled).
		Int("needsRetitle", result.NeedsRetitle).
		Msg("scanned session index")

	// Nothing is persisted for a file that did not finish, including one
	// interrupted during its last candidate
	for _, entry := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		u.processEntry(ctx, logger, entry, dryRun, &result)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if result.Updated > 0 && !dryRun {
		if err := claude.WriteSessionIndex(path, index); err != nil {
			return result, fmt.Errorf("failed to write index: %w", err)
		}
		logger.Info().Int("updated", result.Updated).Msg("wrote session index")
	}

	return result, nil
}

func (u *Updater) processEntry(ctx context.Context, logger zerolog.Logger, entry *models.SessionIndexEntry, dryRun bool, result *FileResult) {
	logger = logger.With().Str("sessionId", entry.SessionID).Logger()

	messages, err := claude.ReadSessionLog(entry.FullPath)
	if err != nil {
		logger.Warn().Err(err).Str("log", entry.FullPath).Msg("failed to read session log, skipping")
		result.Skipped++
		return
	}

	conversation := ExtractConversation(messages)
	if len(conversation) == 0 {
		logger.Debug().Msg("no conversation text, skipping")
		result.Skipped++
		return
	}
	text := PrepareConversationText(conversation, u.maxChars, u.numMessages)

	if dryRun {
		logger.Info().
			Str("current", entry.CustomTitle).
			Str("firstPrompt", truncateRunes(entry.FirstPrompt, 80)).
			Int("excerptChars", len([]rune(text))).
			Msg("would generate title")
		result.WouldTitle++
		return
	}

	title, err := u.generator.GenerateTitle(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrNoTitle) {
			logger.Warn().Err(err).Msg("title generation failed")
		}
		result.Failed++
		return
	}

	previous := entry.CustomTitle
	if err := entry.SetTitle(title, u.now()); err != nil {
		logger.Error().Err(err).Msg("failed to set title")
		result.Failed++
		return
	}

	logger.Info().Str("title", title).Str("previous", previous).Msg("titled session")
	result.Updated++
}
