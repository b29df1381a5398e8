package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/prefkeeper/internal/client/storage"
)

// SaveSnapshot stores or replaces the snapshot of a document
func (s *Storage) SaveSnapshot(ctx context.Context, name string, data []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	// Сериализуем запись в JSON
	record, err := json.Marshal(storage.Snapshot{
		Name:      name,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		if err := bucket.Put([]byte(name), record); err != nil {
			return fmt.Errorf("failed to save snapshot %q: %w", name, err)
		}
		return nil
	})
}

// LoadSnapshot retrieves the snapshot of a document
func (s *Storage) LoadSnapshot(ctx context.Context, name string) (*storage.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var snapshot *storage.Snapshot

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return storage.ErrSnapshotNotFound
		}

		data := bucket.Get([]byte(name))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		// Десериализуем; data валидна только внутри транзакции
		snapshot = &storage.Snapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

// ListSnapshots returns all documents sorted by name
func (s *Storage) ListSnapshots(ctx context.Context) ([]*storage.Snapshot, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	snapshots := []*storage.Snapshot{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return nil
		}

		// Ключи BoltDB отсортированы, поэтому результат упорядочен по имени
		return bucket.ForEach(func(k, v []byte) error {
			var snapshot storage.Snapshot
			if err := json.Unmarshal(v, &snapshot); err != nil {
				return fmt.Errorf("failed to unmarshal snapshot %q: %w", k, err)
			}
			snapshots = append(snapshots, &snapshot)
			return nil
		})
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	return snapshots, nil
}

// DeleteSnapshot removes a document
func (s *Storage) DeleteSnapshot(ctx context.Context, name string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil || bucket.Get([]byte(name)) == nil {
			return storage.ErrSnapshotNotFound
		}
		return bucket.Delete([]byte(name))
	})
}
