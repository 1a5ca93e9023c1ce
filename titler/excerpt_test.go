package titler

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
)

func userText(text string) *models.UserSessionMessage {
	m := &models.UserSessionMessage{Message: &models.ClaudeMessage{Role: "user", Content: models.NewTextContent(text)}}
	m.Type = "user"
	return m
}

func assistantBlocks(blocks ...models.ContentBlock) *models.AssistantSessionMessage {
	m := &models.AssistantSessionMessage{Message: &models.ClaudeMessage{Role: "assistant", Content: models.NewBlockContent(blocks...)}}
	m.Type = "assistant"
	return m
}

func TestExtractConversation(t *testing.T) {
	long := strings.Repeat("é", 350)

	messages := []models.SessionMessageI{
		&models.SummarySessionMessage{BaseMessage: models.BaseMessage{Type: "summary"}, Summary: "old"},
		userText("   "),
		userText(long),
		&models.UserSessionMessage{Message: &models.ClaudeMessage{Content: models.NewBlockContent(models.ContentBlock{Type: "tool_result", ToolUseID: "t"})}},
		assistantBlocks(
			models.ContentBlock{Type: "thinking", Thinking: "hmm"},
			models.ContentBlock{Type: "tool_use", Name: "Bash"},
			models.ContentBlock{Type: "text", Text: ""},
			models.ContentBlock{Type: "text", Text: strings.Repeat("a", 250)},
			models.ContentBlock{Type: "text", Text: "second block"},
		),
		assistantBlocks(models.ContentBlock{Type: "tool_use", Name: "Read"}),
		models.NewUnparseableMessage([]byte("{broken")),
		userText(" keep spacing "),
	}

	got := ExtractConversation(messages)
	want := []string{
		"User: " + strings.Repeat("é", 300),
		"Assistant: " + strings.Repeat("a", 200),
		"User:  keep spacing ",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractConversation() =\n%q\nwant\n%q", got, want)
	}
}

func TestExtractConversation_Empty(t *testing.T) {
	if got := ExtractConversation(nil); len(got) != 0 {
		t.Errorf("expected no lines, got %q", got)
	}
}

func TestPrepareConversationText(t *testing.T) {
	conv := []string{"User: one", "Assistant: two", "User: three"}

	tests := []struct {
		name        string
		maxChars    int
		numMessages int
		want        string
	}{
		{"all fit", 4000, 10, "User: one\nAssistant: two\nUser: three"},
		{"last n", 4000, 2, "Assistant: two\nUser: three"},
		{"zero messages", 4000, 0, ""},
		{"exact length kept", 26, 2, "Assistant: two\nUser: three"},
		{"truncated from start", 10, 2, "...: three"},
		{"budget equals ellipsis", 3, 2, "..."},
		{"budget below ellipsis", 2, 2, ".."},
		{"no budget", 0, 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrepareConversationText(conv, tt.maxChars, tt.numMessages)
			if got != tt.want {
				t.Errorf("PrepareConversationText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepareConversationText_LengthIsExact(t *testing.T) {
	var conv []string
	for i := 0; i < 30; i++ {
		conv = append(conv, "User: "+strings.Repeat("ü", 450))
	}
	full := strings.Join(conv[len(conv)-10:], "\n")
	if utf8.RuneCountInString(full) <= 4000 {
		t.Fatalf("fixture too short: %d characters", utf8.RuneCountInString(full))
	}

	got := PrepareConversationText(conv, 4000, 10)
	if n := utf8.RuneCountInString(got); n != 4000 {
		t.Fatalf("length = %d, want 4000", n)
	}
	if !strings.HasPrefix(got, "...") {
		t.Error("truncated text should start with ...")
	}
	if !strings.HasSuffix(full, got[len("..."):]) {
		t.Error("truncated text should keep the most recent suffix")
	}
}
