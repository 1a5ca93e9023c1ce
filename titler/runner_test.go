package titler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xiaoyuanzhu-com/claude-sessions/config"
)

func newTestRunner(root string, gen TitleGenerator) *Runner {
	cfg := config.TitlerConfig{MaxChars: 4000, NumMessages: 10, IndexRootDir: root}
	u := NewUpdater(gen, cfg)
	u.now = func() time.Time { return fixedNow }
	return NewRunner(u, cfg)
}

func TestRunOnce_ProcessesEveryProject(t *testing.T) {
	root := t.TempDir()

	for _, project := range []string{"-proj-a", "-proj-b"} {
		dir := filepath.Join(root, project)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		logPath := writeLog(t, dir, "s.jsonl", userLine("work in "+project), assistantLine("done"), userLine("thanks"))
		writeIndexFile(t, dir, indexFixture{Version: 1, Entries: []map[string]any{entry(project, logPath, "work", 3, nil)}})
	}

	// A broken project does not stop the others
	broken := filepath.Join(root, "-proj-broken")
	if err := os.MkdirAll(broken, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(broken, "sessions-index.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A project without an index is not an error
	if err := os.MkdirAll(filepath.Join(root, "-proj-empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	gen := &scriptedGenerator{titles: map[string]string{"thanks": "Project Work"}}
	result, err := newTestRunner(root, gen).RunOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	if result.Files != 3 || result.FailedFiles != 1 || result.Updated != 2 {
		t.Errorf("result = %+v", result)
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid", result.RunID)
	}

	for _, project := range []string{"-proj-a", "-proj-b"} {
		idx := readIndexFile(t, filepath.Join(root, project, "sessions-index.json"))
		if idx.Entries[0]["customTitle"] != "Project Work" {
			t.Errorf("%s not titled: %v", project, idx.Entries[0])
		}
	}

	// Second run finds nothing new to do
	gen.calls = nil
	again, err := newTestRunner(root, gen).RunOnce(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Updated != 0 || len(gen.calls) != 0 {
		t.Errorf("second run updated %d entries with %d calls", again.Updated, len(gen.calls))
	}
}

func TestRunOnce_DryRun(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "-proj")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	logPath := writeLog(t, dir, "s.jsonl", userLine("a"), assistantLine("b"), userLine("c"))
	writeIndexFile(t, dir, indexFixture{Version: 1, Entries: []map[string]any{entry("s1", logPath, "a", 3, nil)}})

	gen := &scriptedGenerator{titles: map[string]string{"": "T"}}
	result, err := newTestRunner(root, gen).RunOnce(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if result.WouldTitle != 1 || result.Updated != 0 || len(gen.calls) != 0 {
		t.Errorf("result = %+v, calls = %d", result, len(gen.calls))
	}
}

func TestRunOnce_MissingRoot(t *testing.T) {
	result, err := newTestRunner(filepath.Join(t.TempDir(), "missing"), &scriptedGenerator{}).RunOnce(context.Background(), false)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if result.Files != 0 || result.Updated != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestRunOnce_Cancelled(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "-proj"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeIndexFile(t, filepath.Join(root, "-proj"), indexFixture{Version: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestRunner(root, &scriptedGenerator{}).RunOnce(ctx, false); err != context.Canceled {
		t.Errorf("RunOnce() error = %v, want context.Canceled", err)
	}
}
