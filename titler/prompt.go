package titler

import (
	"strings"
)

const titlePromptTemplate = `Generate a short, descriptive title (3-6 words) for this coding conversation.
Focus on the main task or topic being worked on.

Conversation:
{{conversation}}

Respond with ONLY the title, no quotes, no explanation.
/no_think`

var quotePairs = [][2]string{{`"`, `"`}, {"'", "'"}, {"`", "`"}, {"“", "”"}}

func buildTitlePrompt(conversationText string) string {
	return strings.Replace(titlePromptTemplate, "{{conversation}}", conversationText, 1)
}

// cleanTitle normalizes a model answer into a single-line title. Empty means
// the answer held nothing usable.
func cleanTitle(answer string) string {
	answer = stripThinkBlock(answer)

	var line string
	for _, l := range strings.Split(answer, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	line = strings.TrimPrefix(line, "Title:")
	line = strings.TrimSpace(line)

	for _, pair := range quotePairs {
		if len(line) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(line, pair[0]) && strings.HasSuffix(line, pair[1]) {
			line = strings.TrimSpace(line[len(pair[0]) : len(line)-len(pair[1])])
			break
		}
	}

	return line
}

// stripThinkBlock drops a leading <think>...</think> section that reasoning
// models emit inline even when asked not to think.
func stripThinkBlock(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "<think>") {
		return s
	}
	end := strings.Index(trimmed, "</think>")
	if end < 0 {
		// Unterminated: the budget ran out mid-thought
		return ""
	}
	return trimmed[end+len("</think>"):]
}
