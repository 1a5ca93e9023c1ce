package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

func TestRootCmd_DryRunOverMissingRoot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CLAUDE_TITLER_CONFIG", filepath.Join(dir, "none.yaml"))
	t.Setenv("CLAUDE_PROJECTS_DIR", filepath.Join(dir, "projects"))
	t.Setenv("LOG_LEVEL", "disabled")
	t.Cleanup(func() { log.Configure("development", "info") })

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--dry-run"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestRootCmd_RejectsArgsAndUnknownFlags(t *testing.T) {
	for _, args := range [][]string{{"extra"}, {"--force"}} {
		cmd := newRootCmd()
		cmd.SetArgs(args)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		if err := cmd.Execute(); err == nil {
			t.Errorf("Execute(%v) should fail", args)
		}
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("max_chars: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAUDE_TITLER_CONFIG", path)
	log.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { log.Configure("development", "info") })

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected config validation error")
	}
}

func TestExecute_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	badConfig := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(badConfig, []byte("max_chars: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		config string
		args   []string
		want   string
	}{
		{"unknown flag", filepath.Join(dir, "none.yaml"), []string{"--force"}, "unknown flag: --force"},
		{"extra argument", filepath.Join(dir, "none.yaml"), []string{"extra"}, "unknown command"},
		{"invalid configuration", badConfig, []string{}, "invalid configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLAUDE_TITLER_CONFIG", tt.config)
			var buf bytes.Buffer
			log.SetOutput(&buf)
			t.Cleanup(func() { log.Configure("development", "info") })

			if code := execute(tt.args); code != 1 {
				t.Errorf("execute(%v) = %d, want 1", tt.args, code)
			}
			out := buf.String()
			if !strings.Contains(out, "claude-titler failed") || !strings.Contains(out, tt.want) {
				t.Errorf("log output %q should report %q", out, tt.want)
			}
		})
	}
}
