package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TitledAtLayout is the ISO-8601 layout used when stamping titledAt.
const TitledAtLayout = "2006-01-02T15:04:05.000Z07:00"

// SessionIndex represents the sessions-index.json file.
// Top-level keys other than version and entries are kept and written back.
type SessionIndex struct {
	Version int                  `json:"version"`
	Entries []*SessionIndexEntry `json:"entries"`

	extra map[string]json.RawMessage
}

// SessionIndexEntry represents a single session in the index.
// The original JSON object is retained so fields this package does not know
// about survive a rewrite; SetTitle patches only customTitle and titledAt.
type SessionIndexEntry struct {
	RawJSON
	SessionID    string `json:"sessionId"`
	FullPath     string `json:"fullPath"`
	FileMtime    int64  `json:"fileMtime,omitempty"`
	FirstPrompt  string `json:"firstPrompt"`
	Summary      string `json:"summary,omitempty"`
	CustomTitle  string `json:"customTitle,omitempty"`
	TitledAt     string `json:"titledAt,omitempty"`
	MessageCount int    `json:"messageCount"`
	Created      string `json:"created"`
	Modified     string `json:"modified"`
	GitBranch    string `json:"gitBranch,omitempty"`
	ProjectPath  string `json:"projectPath"`
	IsSidechain  bool   `json:"isSidechain,omitempty"`
}

// HasCustomTitle reports whether a non-blank customTitle is present.
func (e *SessionIndexEntry) HasCustomTitle() bool {
	return strings.TrimSpace(e.CustomTitle) != ""
}

// HasTitledAt reports whether a titledAt stamp is present.
func (e *SessionIndexEntry) HasTitledAt() bool {
	return strings.TrimSpace(e.TitledAt) != ""
}

// DisplayTitle returns customTitle, then firstPrompt, then "Untitled".
func (e *SessionIndexEntry) DisplayTitle() string {
	if e.HasCustomTitle() {
		return e.CustomTitle
	}
	if p := strings.TrimSpace(e.FirstPrompt); p != "" {
		return p
	}
	return "Untitled"
}

// ModifiedTime parses the modified timestamp. The zero time is returned when
// the value is missing or malformed.
func (e *SessionIndexEntry) ModifiedTime() time.Time {
	t, _ := ParseTimestamp(e.Modified)
	return t
}

// SetTitle records a titler-produced title and stamps titledAt.
func (e *SessionIndexEntry) SetTitle(title string, at time.Time) error {
	stamp := at.UTC().Format(TitledAtLayout)

	fields := map[string]json.RawMessage{}
	if len(e.Raw) > 0 {
		if err := json.Unmarshal(e.Raw, &fields); err != nil {
			return fmt.Errorf("failed to decode entry %s: %w", e.SessionID, err)
		}
	} else {
		type Alias SessionIndexEntry
		data, err := json.Marshal(Alias(*e))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
	}

	titleJSON, err := json.Marshal(title)
	if err != nil {
		return err
	}
	stampJSON, err := json.Marshal(stamp)
	if err != nil {
		return err
	}
	fields["customTitle"] = titleJSON
	fields["titledAt"] = stampJSON

	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	e.Raw = raw
	e.CustomTitle = title
	e.TitledAt = stamp
	return nil
}

func (e *SessionIndexEntry) UnmarshalJSON(data []byte) error {
	type Alias SessionIndexEntry
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = SessionIndexEntry(a)
	e.Raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

func (e SessionIndexEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type Alias SessionIndexEntry
	return json.Marshal(Alias(e))
}

func (idx *SessionIndex) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out SessionIndex
	if v, ok := fields["version"]; ok {
		if err := json.Unmarshal(v, &out.Version); err != nil {
			return fmt.Errorf("invalid version: %w", err)
		}
		delete(fields, "version")
	}
	if v, ok := fields["entries"]; ok {
		if err := json.Unmarshal(v, &out.Entries); err != nil {
			return fmt.Errorf("invalid entries: %w", err)
		}
		delete(fields, "entries")
	}
	if len(fields) > 0 {
		out.extra = fields
	}

	*idx = out
	return nil
}

func (idx SessionIndex) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(v)
		return nil
	}

	if err := writeField("version", idx.Version); err != nil {
		return nil, err
	}
	entries := idx.Entries
	if entries == nil {
		entries = []*SessionIndexEntry{}
	}
	if err := writeField("entries", entries); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(idx.extra))
	for k := range idx.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(k, idx.extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseTimestamp parses an ISO-8601 timestamp as written by Claude Code
// (RFC 3339 with optional fractional seconds).
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
}
