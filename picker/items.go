// Package picker provides the Bubble Tea session picker.
package picker

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/sahilm/fuzzy"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
)

// sessionItem implements list.Item for one cached session
type sessionItem struct {
	entry   *claude.CachedSessionEntry
	project string // home-folded project path
	age     string
}

func (i sessionItem) Title() string { return i.entry.DisplayTitle }

func (i sessionItem) Description() string {
	if i.entry.GitBranch != "" {
		return fmt.Sprintf("%s (%s) · %s · %d msgs", i.project, i.entry.GitBranch, i.age, i.entry.MessageCount)
	}
	return fmt.Sprintf("%s · %s · %d msgs", i.project, i.age, i.entry.MessageCount)
}

func (i sessionItem) FilterValue() string { return i.entry.DisplayTitle + " " + i.project }

// buildItems converts cache entries, already sorted most recent first.
func buildItems(entries []*claude.CachedSessionEntry, home string, now time.Time) []list.Item {
	items := make([]list.Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, sessionItem{
			entry:   entry,
			project: FoldHome(entry.ProjectPath, home),
			age:     RelativeAge(entry.Modified, now),
		})
	}
	return items
}

// fuzzyFilter ranks targets with sahilm/fuzzy. Best matches come first.
func fuzzyFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	ranks := make([]list.Rank, len(matches))
	for i, match := range matches {
		ranks[i] = list.Rank{
			Index:          match.Index,
			MatchedIndexes: match.MatchedIndexes,
		}
	}
	return ranks
}

// FoldHome shows a path under home as ~/...
func FoldHome(path, home string) string {
	if home == "" || path == "" {
		return path
	}
	home = filepath.Clean(home)
	clean := filepath.Clean(path)
	if clean == home {
		return "~"
	}
	if strings.HasPrefix(clean, home+string(filepath.Separator)) {
		return "~" + clean[len(home):]
	}
	return path
}

// RelativeAge renders how long ago t was, in the largest whole unit.
func RelativeAge(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
