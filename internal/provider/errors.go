package provider

import (
	"github.com/iudanet/prefkeeper/internal/validation"
	"github.com/iudanet/prefkeeper/pkg/api"
)

var (
	// ErrInvalidDocumentName имя документа пустое или содержит недопустимые символы
	ErrInvalidDocumentName = api.ErrInvalidDocumentName

	// ErrEmptyKey пустой ключ настройки
	ErrEmptyKey = validation.ErrEmptyKey

	// ErrInvalidKey ключ настройки слишком длинный или содержит управляющие символы
	ErrInvalidKey = validation.ErrInvalidKey
)
