// Package redis хранит документы хаба в Redis: один hash на документ и
// отсортированное множество имен для листинга.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/server/storage"
)

// Поля hash-а документа
const (
	fieldType        = "type"
	fieldState       = "state"
	fieldVectorClock = "vector_clock"
	fieldUpdatedAt   = "updated_at"
)

// Storage represents Redis storage implementation
type Storage struct {
	client *goredis.Client
	prefix string
}

var _ storage.DocumentStorage = (*Storage)(nil)

// Options configures the Redis connection
type Options struct {
	Address  string
	Password string
	Prefix   string
	DB       int
}

// New connects to Redis and checks the connection
func New(ctx context.Context, opts Options) (*Storage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewWithClient(client, opts.Prefix), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *goredis.Client, prefix string) *Storage {
	if prefix == "" {
		prefix = "prefkeeper"
	}
	return &Storage{client: client, prefix: prefix}
}

func (s *Storage) documentKey(name string) string {
	return s.prefix + ":doc:" + name
}

func (s *Storage) indexKey() string {
	return s.prefix + ":documents"
}

// SaveDocument creates or replaces a document in one MULTI/EXEC transaction
func (s *Storage) SaveDocument(ctx context.Context, doc *storage.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	vclock, err := json.Marshal(doc.VectorClock)
	if err != nil {
		return fmt.Errorf("failed to marshal vector clock: %w", err)
	}

	updatedAt := doc.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.documentKey(doc.Name),
			fieldType, string(doc.Type),
			fieldState, []byte(doc.State),
			fieldVectorClock, vclock,
			fieldUpdatedAt, updatedAt.UnixMilli(),
		)
		// Score 0: при равных score ZRANGE сортирует по имени
		pipe.ZAdd(ctx, s.indexKey(), goredis.Z{Score: 0, Member: doc.Name})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetDocument retrieves a document by name
func (s *Storage) GetDocument(ctx context.Context, name string) (*storage.Document, error) {
	fields, err := s.client.HGetAll(ctx, s.documentKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if len(fields) == 0 {
		return nil, storage.ErrDocumentNotFound
	}

	return decodeDocument(name, fields)
}

// ListDocuments returns all documents sorted by name
func (s *Storage) ListDocuments(ctx context.Context) ([]*storage.Document, error) {
	names, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*storage.Document, 0, len(names))
	for _, name := range names {
		doc, err := s.GetDocument(ctx, name)
		if errors.Is(err, storage.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Ping checks the Redis connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (s *Storage) Close() error {
	return s.client.Close()
}

func decodeDocument(name string, fields map[string]string) (*storage.Document, error) {
	updatedAt, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at of %q: %w", name, err)
	}

	doc := &storage.Document{
		Name:      name,
		Type:      crdt.Type(fields[fieldType]),
		State:     json.RawMessage(fields[fieldState]),
		UpdatedAt: time.UnixMilli(updatedAt).UTC(),
	}

	if err := json.Unmarshal([]byte(fields[fieldVectorClock]), &doc.VectorClock); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vector clock of %q: %w", name, err)
	}

	return doc, nil
}
