package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound документ не найден на сервере
	ErrNotFound = errors.New("document not found on server")

	// ErrRejected сервер отклонил запрос (4xx), повтор не поможет
	ErrRejected = errors.New("request rejected by server")
)

// StatusError ошибка с HTTP статусом ответа сервера
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Retryable сообщает, имеет ли смысл повторить запрос
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}
