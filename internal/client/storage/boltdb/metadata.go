package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/crypto"
)

const (
	keyReplicaID         = "replica_id"
	keySalt              = "salt"
	keyLastSyncTimestamp = "last_sync_timestamp/"
)

// ReplicaID returns the id of this replica, generating it on first call.
// Генерация и сохранение выполняются в одной транзакции.
func (s *Storage) ReplicaID(ctx context.Context) (crdt.ReplicaID, error) {
	value, err := s.getOrCreate([]byte(keyReplicaID), func() ([]byte, error) {
		return []byte(crdt.NewReplicaID()), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get replica id: %w", err)
	}
	return crdt.ReplicaID(value), nil
}

// Salt returns the argon2 salt of this replica, generating it on first call.
func (s *Storage) Salt(ctx context.Context) ([]byte, error) {
	value, err := s.getOrCreate([]byte(keySalt), crypto.GenerateSalt)
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}
	return value, nil
}

// SaveLastSyncTimestamp saves the timestamp of the last successful sync
func (s *Storage) SaveLastSyncTimestamp(ctx context.Context, document string, timestamp int64) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Конвертируем int64 в bytes
		timestampBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(timestampBytes, uint64(timestamp))

		if err := bucket.Put([]byte(keyLastSyncTimestamp+document), timestampBytes); err != nil {
			return fmt.Errorf("failed to save last sync timestamp: %w", err)
		}

		return nil
	})
}

// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
// Returns 0 if no sync has been performed yet
func (s *Storage) GetLastSyncTimestamp(ctx context.Context, document string) (int64, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var timestamp int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		timestampBytes := bucket.Get([]byte(keyLastSyncTimestamp + document))
		if timestampBytes == nil {
			// Если timestamp не найден, возвращаем 0 (первая синхронизация)
			return nil
		}

		timestamp = int64(binary.BigEndian.Uint64(timestampBytes))
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to get last sync timestamp: %w", err)
	}

	return timestamp, nil
}

func (s *Storage) getOrCreate(key []byte, create func() ([]byte, error)) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var value []byte

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		if existing := bucket.Get(key); existing != nil {
			value = bytes.Clone(existing)
			return nil
		}

		created, err := create()
		if err != nil {
			return err
		}
		value = created
		return bucket.Put(key, created)
	})

	return value, err
}
