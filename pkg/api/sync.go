package api

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DocumentInfo описывает документ, хранящийся на хабе
type DocumentInfo struct {
	UpdatedAt   time.Time         `json:"updated_at"`
	VectorClock map[string]uint64 `json:"vector_clock"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
}

// DocumentsResponse ответ со списком документов хаба
type DocumentsResponse struct {
	Documents []DocumentInfo `json:"documents"`
}

// ErrInvalidDocumentName имя документа пустое или содержит недопустимые символы
var ErrInvalidDocumentName = errors.New("invalid document name")

var documentNameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._:-]{0,127}$`)

// ValidateDocumentName проверяет, что имя можно использовать как ключ
// хранилища и как сегмент URL.
func ValidateDocumentName(name string) error {
	if !documentNameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentName, name)
	}
	return nil
}
