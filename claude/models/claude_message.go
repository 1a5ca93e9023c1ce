package models

import (
	"bytes"
	"encoding/json"
)

// ClaudeMessage represents a message in the Claude API format.
type ClaudeMessage struct {
	Role    string         `json:"role,omitempty"` // "user" or "assistant"
	Content MessageContent `json:"content"`
	Model   string         `json:"model,omitempty"`
	ID      string         `json:"id,omitempty"`
}

// MessageContent holds either a plain string or a sequence of content blocks.
// User prompts are usually strings; assistant replies and tool results are blocks.
type MessageContent struct {
	Text   string
	Blocks []ContentBlock

	isText bool
}

// NewTextContent returns string content.
func NewTextContent(text string) MessageContent {
	return MessageContent{Text: text, isText: true}
}

// NewBlockContent returns block content.
func NewBlockContent(blocks ...ContentBlock) MessageContent {
	return MessageContent{Blocks: blocks}
}

// IsText reports whether the content was a JSON string.
func (c MessageContent) IsText() bool { return c.isText }

// IsBlocks reports whether the content was a JSON array.
func (c MessageContent) IsBlocks() bool { return c.Blocks != nil }

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = MessageContent{}
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		c.Text = s
		c.isText = true
	case '[':
		blocks := []ContentBlock{}
		if err := json.Unmarshal(data, &blocks); err != nil {
			return err
		}
		c.Blocks = blocks
	}
	// null and other shapes carry no content
	return nil
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	switch {
	case c.isText:
		return json.Marshal(c.Text)
	case c.Blocks != nil:
		return json.Marshal(c.Blocks)
	default:
		return []byte("null"), nil
	}
}
