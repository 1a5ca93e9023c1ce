package titler

import (
	"strings"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
)

// NoPromptPlaceholder is what Claude Code writes as firstPrompt when the log
// never captured a real user message.
const NoPromptPlaceholder = "No prompt"

// MinMessageCount is the smallest messageCount worth spending a model call on.
const MinMessageCount = 3

// NeedsRetitling reports whether a titler-produced title is older than the
// session's last modification. Legacy titles (customTitle without titledAt)
// are never retitled. A timestamp that does not parse counts as not stale.
func NeedsRetitling(entry *models.SessionIndexEntry) bool {
	if !entry.HasCustomTitle() || !entry.HasTitledAt() {
		return false
	}

	modified, err := models.ParseTimestamp(entry.Modified)
	if err != nil {
		return false
	}
	titledAt, err := models.ParseTimestamp(entry.TitledAt)
	if err != nil {
		return false
	}
	return modified.After(titledAt)
}

// ShouldProcessSession reports whether entry needs a title or a retitle now.
func ShouldProcessSession(entry *models.SessionIndexEntry) bool {
	if strings.TrimSpace(entry.FirstPrompt) == "" || entry.FirstPrompt == NoPromptPlaceholder {
		return false
	}
	if entry.MessageCount < MinMessageCount {
		return false
	}
	if !entry.HasCustomTitle() {
		return true
	}
	return NeedsRetitling(entry)
}
