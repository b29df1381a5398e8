package validation

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxKeyLen максимальная длина ключа настройки в байтах
const MaxKeyLen = 256

// ValidateKey проверяет ключ настройки.
// Ключ может содержать любые печатные символы Unicode, включая пробелы и
// точки (`editor.font size`), но не управляющие символы.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if len(key) > MaxKeyLen {
		return fmt.Errorf("%w: must not exceed %d bytes", ErrInvalidKey, MaxKeyLen)
	}

	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidKey)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: contains control character %U", ErrInvalidKey, r)
		}
	}

	return nil
}
