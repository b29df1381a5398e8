package storage

import (
	"context"
	"time"
)

//go:generate moq -out snapshotstore_mock.go . SnapshotStore

// Snapshot is one persisted document: the encoded CRDT snapshot produced by
// merge.Dispatcher. The store treats Data as opaque bytes (it may be
// compressed or encrypted).
type Snapshot struct {
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Data      []byte    `json:"data"`
}

// SnapshotStore defines interface for storing local CRDT documents
type SnapshotStore interface {
	// SaveSnapshot stores or replaces the snapshot of a document
	SaveSnapshot(ctx context.Context, name string, data []byte) error

	// LoadSnapshot retrieves the snapshot of a document
	// Returns ErrSnapshotNotFound if document doesn't exist
	LoadSnapshot(ctx context.Context, name string) (*Snapshot, error)

	// ListSnapshots returns all documents sorted by name
	ListSnapshots(ctx context.Context) ([]*Snapshot, error)

	// DeleteSnapshot removes a document
	// Used to drop a local replica of a document before full re-sync
	DeleteSnapshot(ctx context.Context, name string) error
}
