package validation

import (
	"fmt"
	"unicode/utf8"
)

// MinPassphraseLen минимальная длина парольной фразы в символах
const MinPassphraseLen = 8

// ValidatePassphrase проверяет минимальные требования к парольной фразе
// шифрования снимков
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}

	if utf8.RuneCountInString(passphrase) < MinPassphraseLen {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassphrase, MinPassphraseLen)
	}

	return nil
}
