package titler

import (
	"strings"
	"unicode/utf8"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
)

const (
	userLineChars      = 300
	assistantLineChars = 200
	ellipsis           = "..."
)

// ExtractConversation turns a session log into "User: ..." and
// "Assistant: ..." lines in log order. Only plain-string user content and the
// first non-blank text block of each assistant message are used; every other
// message type, including unparseable lines, is ignored.
func ExtractConversation(messages []models.SessionMessageI) []string {
	var lines []string

	for _, msg := range messages {
		switch m := msg.(type) {
		case *models.UserSessionMessage:
			text, ok := m.TextContent()
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			lines = append(lines, "User: "+truncateRunes(text, userLineChars))

		case *models.AssistantSessionMessage:
			text, ok := m.FirstText()
			if !ok {
				continue
			}
			lines = append(lines, "Assistant: "+truncateRunes(text, assistantLineChars))
		}
	}

	return lines
}

// PrepareConversationText keeps the last numMessages lines, joins them with
// newlines and, when the result is longer than maxChars, keeps the most recent
// maxChars-3 characters behind a "..." prefix.
func PrepareConversationText(conversation []string, maxChars, numMessages int) string {
	if numMessages < 0 {
		numMessages = 0
	}
	if len(conversation) > numMessages {
		conversation = conversation[len(conversation)-numMessages:]
	}

	text := strings.Join(conversation, "\n")
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	if maxChars <= 0 {
		return ""
	}
	if maxChars <= len(ellipsis) {
		return ellipsis[:maxChars]
	}
	runes := []rune(text)
	return ellipsis + string(runes[len(runes)-(maxChars-len(ellipsis)):])
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
