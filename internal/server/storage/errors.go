package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document was not found in storage
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidDocument indicates that document is missing required fields
	ErrInvalidDocument = errors.New("invalid document")
)
