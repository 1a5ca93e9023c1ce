package claude

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

// ReadSessionLog reads a session JSONL file and returns typed messages in file order.
// Each line is parsed independently: a line that is not valid JSON, or whose shape
// does not match its declared type, becomes an UnknownSessionMessage instead of
// aborting the read. The upstream process may still be appending, so a torn last
// line is expected.
//
// A missing file yields an empty list and no error.
func ReadSessionLog(path string) ([]models.SessionMessageI, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	return readSessionLines(file, path)
}

func readSessionLines(r io.Reader, source string) ([]models.SessionMessageI, error) {
	var messages []models.SessionMessageI
	reader := bufio.NewReader(r)
	lineNum := 0

	for {
		lineNum++

		// ReadBytes reads until delimiter, no size limit
		lineBytes, err := reader.ReadBytes('\n')
		if len(lineBytes) > 0 {
			if msg := parseTypedMessage(lineBytes, lineNum, source); msg != nil {
				messages = append(messages, msg)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return messages, fmt.Errorf("error reading session file: %w", err)
		}
	}

	return messages, nil
}

// parseTypedMessage parses a line into the appropriate typed message struct.
// Raw JSON is always preserved for passthrough serialization.
// Returns nil only for empty lines.
func parseTypedMessage(lineBytes []byte, lineNum int, source string) models.SessionMessageI {
	line := bytes.TrimSpace(lineBytes)
	if len(line) == 0 {
		return nil
	}

	rawCopy := make([]byte, len(line))
	copy(rawCopy, line)

	var typeOnly struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(rawCopy, &typeOnly); err != nil {
		log.Debug().
			Err(err).
			Int("line", lineNum).
			Str("source", source).
			Msg("unparseable session line, treating as unknown")
		return models.NewUnparseableMessage(rawCopy)
	}

	var msg models.SessionMessageI
	switch typeOnly.Type {
	case "user":
		m := &models.UserSessionMessage{}
		m.Raw = rawCopy
		msg = m
	case "assistant":
		m := &models.AssistantSessionMessage{}
		m.Raw = rawCopy
		msg = m
	case "summary":
		m := &models.SummarySessionMessage{}
		m.Raw = rawCopy
		msg = m
	case "custom-title":
		m := &models.CustomTitleSessionMessage{}
		m.Raw = rawCopy
		msg = m
	case "file-history-snapshot":
		m := &models.FileHistorySnapshotSessionMessage{}
		m.Raw = rawCopy
		msg = m
	default:
		// Other types (system, progress, result, ...) carry nothing we read
		return &models.UnknownSessionMessage{
			RawJSON:     models.RawJSON{Raw: rawCopy},
			BaseMessage: models.BaseMessage{Type: typeOnly.Type},
		}
	}

	if err := json.Unmarshal(rawCopy, msg); err != nil {
		log.Debug().
			Err(err).
			Int("line", lineNum).
			Str("type", typeOnly.Type).
			Str("source", source).
			Msg("malformed session message, treating as unknown")
		return models.NewUnparseableMessage(rawCopy)
	}
	return msg
}
