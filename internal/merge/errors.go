package merge

import "errors"

var (
	// ErrEmptyBatch возвращается BatchMerge для пустого списка
	ErrEmptyBatch = errors.New("batch merge requires at least one item")

	// ErrTypeMismatch сообщение содержит другой вариант CRDT, чем локальный экземпляр
	ErrTypeMismatch = errors.New("CRDT type mismatch")

	// ErrInvalidMessage сообщение или снимок не удалось декодировать
	ErrInvalidMessage = errors.New("invalid sync message")

	// ErrTooLarge распакованные данные превышают допустимый размер
	ErrTooLarge = errors.New("decoded data too large")

	// ErrInvalidJSON значение не является корректным JSON
	ErrInvalidJSON = errors.New("invalid JSON value")
)
