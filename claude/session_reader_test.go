package claude

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
)

func TestReadSessionLog_TolerantParsing(t *testing.T) {
	lines := []string{
		`{"type":"summary","summary":"Earlier work","leafUuid":"x"}`,
		`{"type":"user","uuid":"u1","message":{"role":"user","content":"hello"}}`,
		`not json at all`,
		`{"type":"assistant","uuid":"a1","message":{"role":"assistant","content":[{"type":"text","text":"hi"}]}}`,
		`{"type":"user","message":{"role":"user","content":[{"type":1}]}}`,
		`{"type":"progress","data":{}}`,
		``,
		`{"type":"user","message":{"content":"torn`,
	}
	path := filepath.Join(t.TempDir(), "s.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatal(err)
	}

	messages, err := ReadSessionLog(path)
	if err != nil {
		t.Fatalf("ReadSessionLog() error = %v", err)
	}

	wantTypes := []string{"summary", "user", models.UnknownType, "assistant", models.UnknownType, "progress", models.UnknownType}
	if len(messages) != len(wantTypes) {
		t.Fatalf("got %d messages, want %d", len(messages), len(wantTypes))
	}
	for i, want := range wantTypes {
		if got := messages[i].GetType(); got != want {
			t.Errorf("message %d type = %q, want %q", i, got, want)
		}
	}

	user, ok := messages[1].(*models.UserSessionMessage)
	if !ok {
		t.Fatalf("message 1 is %T, want *UserSessionMessage", messages[1])
	}
	if text, _ := user.TextContent(); text != "hello" {
		t.Errorf("user text = %q", text)
	}
	if _, ok := messages[3].(*models.AssistantSessionMessage); !ok {
		t.Errorf("message 3 is %T, want *AssistantSessionMessage", messages[3])
	}
}

func TestReadSessionLog_MissingFile(t *testing.T) {
	messages, err := ReadSessionLog(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages, got %d", len(messages))
	}
}

func TestReadSessionLog_KeepsRawLine(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":"x"},"extra":{"k":[1,2]}}`
	messages, err := readSessionLines(strings.NewReader(line+"\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("got %d messages", len(messages))
	}
	data, err := messages[0].MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != line {
		t.Errorf("raw line not preserved:\n got %s\nwant %s", data, line)
	}
}
