package user

import (
	"bytes"
	"encoding/json"
)

// NullString is a tri-state JSON string: absent, null, or a value. A
// plain *string cannot tell "null" from "not sent", so partial updates
// would silently drop a client's request to clear a field.
type NullString struct {
	Set   bool
	Value *string
}

// SetString builds a present, non-null NullString; handy in tests and
// callers that assemble requests in code.
func SetString(s string) NullString {
	return NullString{Set: true, Value: &s}
}

func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true

	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	return json.Unmarshal(data, &n.Value)
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}

	return json.Marshal(*n.Value)
}
