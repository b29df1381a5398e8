package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONValue is a JSON document stored in canonical form: compact, with object
// keys sorted and numbers kept verbatim. Two values holding the same JSON data
// compare equal with ==, so JSONValue can be used as an ORSet element or as
// the value type of replicated maps without knowing the Go type behind it.
//
// The zero value is JSON null, so null survives a round trip unchanged.
type JSONValue string

// Null is the JSON null value.
const Null JSONValue = ""

const nullLiteral = "null"

// NewJSONValue encodes any Go value into a JSONValue.
func NewJSONValue(v any) (JSONValue, error) {
	if jv, ok := v.(JSONValue); ok {
		return jv, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return ParseJSONValue(data)
}

// ParseJSONValue validates raw JSON text and brings it to canonical form.
func ParseJSONValue(raw []byte) (JSONValue, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if dec.More() {
		return "", fmt.Errorf("%w: trailing data", ErrInvalidJSON)
	}

	if v == nil {
		return Null, nil
	}

	// encoding/json сортирует ключи map при кодировании
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return JSONValue(data), nil
}

// MustJSONValue is NewJSONValue for literals in tests and defaults.
func MustJSONValue(v any) JSONValue {
	jv, err := NewJSONValue(v)
	if err != nil {
		panic(err)
	}
	return jv
}

// Decode unmarshals the value into dst.
func (v JSONValue) Decode(dst any) error {
	return json.Unmarshal(v.Bytes(), dst)
}

// Bytes returns the JSON text.
func (v JSONValue) Bytes() []byte {
	if v == Null {
		return []byte(nullLiteral)
	}
	return []byte(v)
}

// String implements fmt.Stringer.
func (v JSONValue) String() string {
	return string(v.Bytes())
}

// MarshalJSON implements json.Marshaler.
func (v JSONValue) MarshalJSON() ([]byte, error) {
	return v.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	parsed, err := ParseJSONValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
