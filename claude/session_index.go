package claude

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
)

// IndexFileName is the per-project session manifest written by Claude Code.
const IndexFileName = "sessions-index.json"

// ReadSessionIndex reads and parses a sessions-index.json file.
// Unlike session logs, a malformed index is an error.
func ReadSessionIndex(path string) (*models.SessionIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var index models.SessionIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &index, nil
}

// WriteSessionIndex serializes the whole index with two-space indentation and
// replaces path atomically (write to temp, then rename).
func WriteSessionIndex(path string, index *models.SessionIndex) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	data = append(data, '\n')

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	return writeFileAtomic(path, data, mode)
}

// writeFileAtomic writes content to a file atomically (write to temp, then rename)
func writeFileAtomic(path string, content []byte, mode os.FileMode) error {
	// Create temp file in same directory (ensures same filesystem for atomic rename)
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := bytes.NewReader(content).WriteTo(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	// Success: clear defer cleanup
	tmpFile = nil
	return nil
}

// DiscoverIndexFiles returns the index file of every project directory directly
// under projectsDir, in directory-name order. Project directories without an
// index are skipped. The only error is failing to read projectsDir itself.
func DiscoverIndexFiles(projectsDir string) ([]string, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		indexPath := filepath.Join(projectsDir, entry.Name(), IndexFileName)
		info, err := os.Stat(indexPath)
		if err != nil || info.IsDir() {
			continue
		}
		paths = append(paths, indexPath)
	}
	return paths, nil
}
