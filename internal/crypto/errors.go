package crypto

import "errors"

var (
	// ErrInvalidKey ключ шифрования неверной длины
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")

	// ErrEmptyPassphrase пустая парольная фраза
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")

	// ErrInvalidSalt соль неверной длины
	ErrInvalidSalt = errors.New("invalid salt size")

	// ErrDecrypt данные повреждены или зашифрованы другим ключом
	ErrDecrypt = errors.New("authentication failed or corrupted data")
)
