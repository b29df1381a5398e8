package validation

import "errors"

var (
	// ErrEmptyKey пустой ключ настройки
	ErrEmptyKey = errors.New("preference key cannot be empty")

	// ErrInvalidKey ключ слишком длинный или содержит управляющие символы
	ErrInvalidKey = errors.New("invalid preference key")

	// ErrEmptyPassphrase парольная фраза пустая
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")

	// ErrWeakPassphrase парольная фраза короче MinPassphraseLen
	ErrWeakPassphrase = errors.New("passphrase is too short")
)
