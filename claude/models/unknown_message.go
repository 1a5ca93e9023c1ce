package models

import "encoding/json"

// UnknownType is the type reported for lines that could not be decoded.
const UnknownType = "unknown"

// UnknownSessionMessage is the fallback for unparseable lines and for message
// types this package has no struct for. Unparseable lines report UnknownType.
type UnknownSessionMessage struct {
	RawJSON
	BaseMessage
}

// NewUnparseableMessage wraps a line that is not valid JSON or has an unexpected shape.
func NewUnparseableMessage(raw []byte) *UnknownSessionMessage {
	return &UnknownSessionMessage{
		RawJSON:     RawJSON{Raw: raw},
		BaseMessage: BaseMessage{Type: UnknownType},
	}
}

func (m UnknownSessionMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) > 0 && json.Valid(m.Raw) {
		return m.Raw, nil
	}
	type Alias UnknownSessionMessage
	return json.Marshal(Alias(m))
}
