package cli

import (
	"errors"

	"github.com/iudanet/prefkeeper/internal/merge"
)

// parseValue читает значение из аргумента командной строки. Корректный
// JSON сохраняется как есть, иначе аргумент становится JSON строкой.
// asString всегда сохраняет аргумент строкой: `set name 42 --string`.
func parseValue(arg string, asString bool) (merge.JSONValue, error) {
	if !asString {
		v, err := merge.ParseJSONValue([]byte(arg))
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, merge.ErrInvalidJSON) {
			return "", err
		}
	}
	return merge.NewJSONValue(arg)
}
