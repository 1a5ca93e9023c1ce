package models

import "encoding/json"

// Metadata lines carry no conversation text. They are decoded so callers can
// tell them apart from unparseable input, but never contribute to an excerpt.

// SummarySessionMessage contains a Claude-generated session summary.
type SummarySessionMessage struct {
	RawJSON
	BaseMessage
	Summary  string `json:"summary,omitempty"`
	LeafUUID string `json:"leafUuid,omitempty"`
}

func (m SummarySessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type Alias SummarySessionMessage
	return json.Marshal(Alias(m))
}

// CustomTitleSessionMessage contains a title set with the /title command.
type CustomTitleSessionMessage struct {
	RawJSON
	BaseMessage
	CustomTitle string `json:"customTitle,omitempty"`
}

func (m CustomTitleSessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type Alias CustomTitleSessionMessage
	return json.Marshal(Alias(m))
}

// FileHistorySnapshotSessionMessage is a file version tracking marker.
type FileHistorySnapshotSessionMessage struct {
	RawJSON
	BaseMessage
	MessageID string          `json:"messageId,omitempty"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
}

func (m FileHistorySnapshotSessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 {
		return m.Raw, nil
	}
	type Alias FileHistorySnapshotSessionMessage
	return json.Marshal(Alias(m))
}
