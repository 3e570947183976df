// Package json is the project-wide JSON codec, backed by sonic.
package json

import (
	"github.com/bytedance/sonic"
)

// RawMessage mirrors encoding/json.RawMessage for API compatibility.
type RawMessage []byte

// MarshalJSON returns m as the JSON encoding of m.
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

// UnmarshalJSON sets *m to a copy of data.
func (m *RawMessage) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

func Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

func MarshalString(v interface{}) (string, error) {
	return sonic.MarshalString(v)
}

func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// MarshalSorted encodes with map keys sorted, so equal values always
// produce equal bytes.
func MarshalSorted(v interface{}) ([]byte, error) {
	return sonic.ConfigStd.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return sonic.Unmarshal(data, v)
}

func UnmarshalString(data string, v interface{}) error {
	return sonic.UnmarshalString(data, v)
}

// Convert re-encodes src into dst, typically a map into a typed struct.
func Convert(src, dst interface{}) error {
	data, err := sonic.Marshal(src)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, dst)
}
