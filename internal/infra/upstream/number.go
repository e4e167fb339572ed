package upstream

import (
	"bytes"
	"encoding/json"
)

// Number decodes a JSON value that should be numeric. Anything else
// (null, strings such as "-", objects) decodes to an absent value.
type Number struct {
	value *float64
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		n.value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		n.value = nil
		return nil
	}
	n.value = &v
	return nil
}

// Ptr returns the decoded value or nil.
func (n Number) Ptr() *float64 {
	if n.value == nil {
		return nil
	}
	v := *n.value
	return &v
}

// Ptrs converts a decoded series.
func Ptrs(values []Number) []*float64 {
	if values == nil {
		return nil
	}
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = v.Ptr()
	}
	return out
}
