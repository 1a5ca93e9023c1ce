package models

import (
	"encoding/json"
	"strings"
)

// AssistantSessionMessage represents Claude's response with text and/or tool calls.
type AssistantSessionMessage struct {
	RawJSON
	BaseMessage
	EnvelopeFields
	Message *ClaudeMessage `json:"message,omitempty"`
}

func (m AssistantSessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type Alias AssistantSessionMessage
	return json.Marshal(Alias(m))
}

// FirstText returns the first text block whose text is not blank.
// Tool calls, thinking blocks and plain-string content are skipped.
func (m *AssistantSessionMessage) FirstText() (string, bool) {
	if m.Message == nil {
		return "", false
	}
	for _, block := range m.Message.Content.Blocks {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, true
		}
	}
	return "", false
}
