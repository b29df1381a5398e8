package storage

import (
	"context"

	"github.com/iudanet/prefkeeper/internal/crdt"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// ReplicaID returns the id of this replica, generating and persisting
	// a new one on first call
	ReplicaID(ctx context.Context) (crdt.ReplicaID, error)

	// Salt returns the argon2 salt of this replica, generating and
	// persisting a new one on first call
	Salt(ctx context.Context) ([]byte, error)

	// SaveLastSyncTimestamp saves the time (unix ms) of the last successful
	// sync of a document
	SaveLastSyncTimestamp(ctx context.Context, document string, timestamp int64) error

	// GetLastSyncTimestamp retrieves the time of the last successful sync
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context, document string) (int64, error)
}

// Store is everything the client keeps on disk.
type Store interface {
	SnapshotStore
	MetadataStorage
	Close() error
}
