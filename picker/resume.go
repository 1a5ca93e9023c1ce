package picker

import (
	"os"
	"os/exec"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude"
)

// ResumeCommand builds `<bin> --resume <sessionId>` running in the session's
// project directory, or in fallbackDir when that directory no longer exists.
func ResumeCommand(bin string, entry *claude.CachedSessionEntry, fallbackDir string) *exec.Cmd {
	cmd := exec.Command(bin, "--resume", entry.SessionID)
	cmd.Dir = fallbackDir
	if entry.ProjectPath != "" {
		if info, err := os.Stat(entry.ProjectPath); err == nil && info.IsDir() {
			cmd.Dir = entry.ProjectPath
		}
	}
	return cmd
}
