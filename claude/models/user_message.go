package models

import (
	"encoding/json"
	"strings"
)

// UserSessionMessage represents a user input or tool result message.
type UserSessionMessage struct {
	RawJSON
	BaseMessage
	EnvelopeFields
	Message          *ClaudeMessage  `json:"message,omitempty"`
	ToolUseResult    json.RawMessage `json:"toolUseResult,omitempty"`
	IsCompactSummary bool            `json:"isCompactSummary,omitempty"`
}

func (m UserSessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type Alias UserSessionMessage
	return json.Marshal(Alias(m))
}

// TextContent returns the content when it is a plain string.
// Tool results and other block content report ok == false.
func (m *UserSessionMessage) TextContent() (string, bool) {
	if m.Message == nil || !m.Message.Content.IsText() {
		return "", false
	}
	return m.Message.Content.Text, true
}

// GetUserPrompt extracts the actual user-typed text from a user message,
// filtering out system-injected tags like <ide_opened_file>, <system-reminder>
func (m *UserSessionMessage) GetUserPrompt() string {
	if m.Message == nil {
		return ""
	}

	content := m.Message.Content
	if content.IsText() {
		return filterSystemTags(content.Text)
	}

	var userTexts []string
	for _, block := range content.Blocks {
		if block.Type != "text" {
			continue
		}
		if filtered := filterSystemTags(block.Text); filtered != "" {
			userTexts = append(userTexts, filtered)
		}
	}
	return strings.Join(userTexts, "\n")
}
