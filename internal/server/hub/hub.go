// Package hub реализует узел синхронизации: хранит копию каждого документа,
// сливает в нее полные состояния реплик и возвращает результат слияния.
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/server/metrics"
	"github.com/iudanet/prefkeeper/internal/server/storage"
	"github.com/iudanet/prefkeeper/pkg/api"
)

// Результаты синхронизации для метрик
const (
	resultOK           = "ok"
	resultCreated      = "created"
	resultTypeMismatch = "type_mismatch"
	resultInvalid      = "invalid"
	resultError        = "error"
)

// Hub merges replica states into the stored copy of each document.
// Merges of one document are serialized; different documents merge in parallel.
type Hub struct {
	store      storage.DocumentStorage
	dispatcher *merge.Dispatcher
	metrics    *metrics.Metrics
	logger     *slog.Logger
	locks      map[string]*docLock
	replicaID  crdt.ReplicaID
	mu         sync.Mutex
}

// New creates a hub. metrics may be nil.
func New(
	store storage.DocumentStorage,
	dispatcher *merge.Dispatcher,
	replicaID crdt.ReplicaID,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Hub {
	return &Hub{
		store:      store,
		dispatcher: dispatcher,
		replicaID:  replicaID,
		metrics:    m,
		logger:     logger,
		locks:      make(map[string]*docLock),
	}
}

// ReplicaID returns the hub replica id.
func (h *Hub) ReplicaID() crdt.ReplicaID { return h.replicaID }

// Dispatcher returns the dispatcher used to decode and encode messages.
func (h *Hub) Dispatcher() *merge.Dispatcher { return h.dispatcher }

// docLock мьютекс документа; refs считает владельца и ожидающих
type docLock struct {
	mu   sync.Mutex
	refs int
}

// lock захватывает мьютекс документа name. Запись удаляется из карты,
// когда ее отпускает последний пользователь.
func (h *Hub) lock(name string) func() {
	h.mu.Lock()
	l, ok := h.locks[name]
	if !ok {
		l = &docLock{}
		h.locks[name] = l
	}
	l.refs++
	h.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		h.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.locks, name)
		}
		h.mu.Unlock()
	}
}

// Sync merges the state carried by msg into the hub copy of document name and
// returns the merged state addressed back to the sender. The first message for
// an unknown document creates it.
func (h *Hub) Sync(ctx context.Context, name string, msg *merge.SyncMessage) (*merge.SyncMessage, error) {
	start := time.Now()

	reply, result, err := h.sync(ctx, name, msg)
	if h.metrics != nil {
		h.metrics.RecordSync(string(msg.Type), result, time.Since(start))
	}
	if err != nil {
		h.logger.Warn("Sync failed",
			"document", name,
			"from", msg.From,
			"type", msg.Type,
			slog.Any("error", err))
		return nil, err
	}

	h.logger.Info("Document synced",
		"document", name,
		"from", msg.From,
		"type", msg.Type,
		"result", result,
		"duration", time.Since(start))

	return reply, nil
}

func (h *Hub) sync(ctx context.Context, name string, msg *merge.SyncMessage) (*merge.SyncMessage, string, error) {
	if err := api.ValidateDocumentName(name); err != nil {
		return nil, resultInvalid, err
	}
	if _, err := crdt.ParseType(string(msg.Type)); err != nil {
		return nil, resultInvalid, err
	}
	if len(msg.State) == 0 {
		return nil, resultInvalid, fmt.Errorf("%w: empty state", merge.ErrInvalidMessage)
	}

	unlock := h.lock(name)
	defer unlock()

	doc, created, err := h.loadOrCreate(ctx, name, msg.Type)
	if err != nil {
		return nil, resultError, err
	}

	ordering := msg.Ordering(doc.VectorClock())
	if h.metrics != nil {
		h.metrics.RecordOrdering(ordering.String())
	}

	if err := merge.Apply[merge.JSONValue](h.dispatcher, doc, msg); err != nil {
		switch {
		case errors.Is(err, merge.ErrTypeMismatch):
			return nil, resultTypeMismatch, fmt.Errorf("document %q: %w", name, err)
		case errors.Is(err, merge.ErrInvalidMessage):
			return nil, resultInvalid, err
		default:
			return nil, resultError, err
		}
	}

	// Состояние, не несущее новых событий, не перезаписываем
	if created || ordering == crdt.After || ordering == crdt.Concurrent {
		if err := h.save(ctx, name, doc); err != nil {
			return nil, resultError, err
		}
	}

	reply, err := h.dispatcher.CreateSyncMessage(doc, msg.From)
	if err != nil {
		return nil, resultError, err
	}

	if created {
		h.logger.Info("Document created on first contact", "document", name, "type", doc.Type())
		if h.metrics != nil {
			h.metrics.RecordDocumentCreated()
		}
		return reply, resultCreated, nil
	}
	return reply, resultOK, nil
}

// loadOrCreate restores the hub copy or creates an empty one owned by the hub.
func (h *Hub) loadOrCreate(ctx context.Context, name string, t crdt.Type) (crdt.CRDT, bool, error) {
	stored, err := h.store.GetDocument(ctx, name)
	if errors.Is(err, storage.ErrDocumentNotFound) {
		doc, err := merge.New[merge.JSONValue](h.dispatcher, t, h.replicaID)
		if err != nil {
			return nil, false, err
		}
		return doc, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load document %q: %w", name, err)
	}

	doc, err := merge.FromState[merge.JSONValue](h.dispatcher, stored.Type, stored.State)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode stored document %q: %w", name, err)
	}
	return doc, false, nil
}

func (h *Hub) save(ctx context.Context, name string, doc crdt.CRDT) error {
	snapshot, err := h.dispatcher.Snapshot(doc)
	if err != nil {
		return err
	}

	err = h.store.SaveDocument(ctx, &storage.Document{
		Name:        name,
		Type:        snapshot.Type,
		State:       snapshot.State,
		VectorClock: doc.VectorClock(),
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", name, err)
	}
	return nil
}

// Fetch returns the current hub state of document name.
// Returns storage.ErrDocumentNotFound for unknown documents.
func (h *Hub) Fetch(ctx context.Context, name string) (*merge.SyncMessage, error) {
	if err := api.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	stored, err := h.store.GetDocument(ctx, name)
	if err != nil {
		return nil, err
	}

	return &merge.SyncMessage{
		From:        h.replicaID,
		Type:        stored.Type,
		State:       stored.State,
		VectorClock: stored.VectorClock,
		Timestamp:   h.dispatcher.Clock().Now(),
	}, nil
}

// Documents lists the documents stored on the hub.
func (h *Hub) Documents(ctx context.Context) ([]api.DocumentInfo, error) {
	docs, err := h.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	if h.metrics != nil {
		h.metrics.SetDocuments(len(docs))
	}

	infos := make([]api.DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		vclock := make(map[string]uint64, len(doc.VectorClock))
		for id, count := range doc.VectorClock {
			vclock[string(id)] = count
		}
		infos = append(infos, api.DocumentInfo{
			Name:        doc.Name,
			Type:        string(doc.Type),
			UpdatedAt:   doc.UpdatedAt,
			VectorClock: vclock,
		})
	}
	return infos, nil
}

// Ping checks the storage backend.
func (h *Hub) Ping(ctx context.Context) error {
	return h.store.Ping(ctx)
}
