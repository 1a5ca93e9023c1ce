package picker

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
)

// PrintSessions writes one row per session, most recent first, for scripting.
func PrintSessions(w io.Writer, entries []*claude.CachedSessionEntry, home string, now time.Time) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers("SESSION", "MODIFIED", "PROJECT", "TITLE")

	for _, entry := range entries {
		t.Row(
			entry.SessionID,
			RelativeAge(entry.Modified, now),
			FoldHome(entry.ProjectPath, home),
			entry.DisplayTitle,
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
