package models

import "encoding/json"

// SessionMessageI is implemented by all session message types.
type SessionMessageI interface {
	json.Marshaler
	GetType() string
	GetUUID() string
	GetTimestamp() string
}

var (
	_ SessionMessageI = (*UserSessionMessage)(nil)
	_ SessionMessageI = (*AssistantSessionMessage)(nil)
	_ SessionMessageI = (*SummarySessionMessage)(nil)
	_ SessionMessageI = (*CustomTitleSessionMessage)(nil)
	_ SessionMessageI = (*FileHistorySnapshotSessionMessage)(nil)
	_ SessionMessageI = (*UnknownSessionMessage)(nil)
)
