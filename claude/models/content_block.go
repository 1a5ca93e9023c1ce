package models

import "encoding/json"

// ContentBlock represents a content block in a Claude message.
// Messages can contain different types of blocks:
// - "text": Text content from the assistant
// - "thinking": Extended thinking from the assistant
// - "tool_use": A tool invocation (e.g., Bash, Read, Edit)
// - "tool_result": The result of a tool execution
type ContentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	Thinking  string          `json:"thinking,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"` // string or array
	IsError   *bool           `json:"is_error,omitempty"`
}
