package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    JSONValue
		wantErr bool
	}{
		{"string", `"dark"`, `"dark"`, false},
		{"number kept verbatim", `12345678901234567890`, `12345678901234567890`, false},
		{"decimal", `1.50`, `1.50`, false},
		{"object keys sorted", `{ "b": 1, "a": [true, null] }`, `{"a":[true,null],"b":1}`, false},
		{"null", `null`, Null, false},
		{"invalid", `{"a":`, "", true},
		{"trailing data", `1 2`, "", true},
		{"empty", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseJSONValue([]byte(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewJSONValue(t *testing.T) {
	a, err := NewJSONValue(map[string]any{"size": 14, "family": "mono"})
	require.NoError(t, err)
	b, err := ParseJSONValue([]byte(`{"family":"mono","size":14}`))
	require.NoError(t, err)

	assert.Equal(t, a, b, "Same data should produce equal values")

	same, err := NewJSONValue(a)
	require.NoError(t, err)
	assert.Equal(t, a, same)

	_, err = NewJSONValue(make(chan int))
	require.ErrorIs(t, err, ErrInvalidJSON)
}

func TestJSONValue_Decode(t *testing.T) {
	v := MustJSONValue(map[string]int{"width": 80})

	var out struct {
		Width int `json:"width"`
	}
	require.NoError(t, v.Decode(&out))
	assert.Equal(t, 80, out.Width)
}

func TestJSONValue_InStruct(t *testing.T) {
	type holder struct {
		Value JSONValue `json:"value"`
	}

	data, err := json.Marshal(holder{Value: MustJSONValue([]int{1, 2})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":[1,2]}`, string(data))

	var zero holder
	data, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null}`, string(data))

	var restored holder
	require.NoError(t, json.Unmarshal([]byte(`{"value":{"z":1,"a":2}}`), &restored))
	assert.Equal(t, JSONValue(`{"a":2,"z":1}`), restored.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &restored))
	assert.Equal(t, Null, restored.Value)
	assert.Equal(t, "null", restored.Value.String())
}
