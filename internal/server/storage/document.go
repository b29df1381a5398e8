package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iudanet/prefkeeper/internal/crdt"
)

//go:generate moq -out document_mock.go . DocumentStorage

// Document is the hub copy of a replicated document. State is the JSON
// state of the CRDT variant named by Type.
type Document struct {
	UpdatedAt   time.Time
	VectorClock crdt.VectorClock
	Name        string
	Type        crdt.Type
	State       json.RawMessage
}

// Validate checks required fields before persistence.
func (d *Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDocument)
	}
	if _, err := crdt.ParseType(string(d.Type)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if len(d.State) == 0 {
		return fmt.Errorf("%w: empty state", ErrInvalidDocument)
	}
	return nil
}

// DocumentStorage defines interface for hub document persistence.
// Merging happens above the storage: SaveDocument replaces the stored copy.
type DocumentStorage interface {
	// SaveDocument creates or replaces a document
	SaveDocument(ctx context.Context, doc *Document) error

	// GetDocument retrieves a document by name
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocument(ctx context.Context, name string) (*Document, error)

	// ListDocuments returns all documents sorted by name
	// Returns empty slice if no documents found
	ListDocuments(ctx context.Context) ([]*Document, error)

	// Ping checks that the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the backend
	Close() error
}
