package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/prefkeeper/internal/client/api"
	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/provider"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс для sync.Service
type Service interface {
	// Sync выполняет полную синхронизацию всех документов с хабом
	Sync(ctx context.Context) (*SyncResult, error)

	// SyncDocument синхронизирует один документ
	SyncDocument(ctx context.Context, name string) (*SyncResult, error)

	// GetPendingSyncCount возвращает количество документов, измененных
	// после последней синхронизации
	GetPendingSyncCount(ctx context.Context) (int, error)
}

// service handles synchronization between the local replica and the hub
type service struct {
	apiClient       api.ClientAPI
	docs            *provider.Documents
	snapshots       storage.SnapshotStore
	metadataStorage storage.MetadataStorage
	logger          *slog.Logger
	hubID           crdt.ReplicaID
}

// NewService creates a new sync service. hubID is the addressee of outgoing
// sync messages.
func NewService(
	apiClient api.ClientAPI,
	docs *provider.Documents,
	snapshots storage.SnapshotStore,
	metadataStorage storage.MetadataStorage,
	hubID crdt.ReplicaID,
	logger *slog.Logger,
) Service {
	return &service{
		apiClient:       apiClient,
		docs:            docs,
		snapshots:       snapshots,
		metadataStorage: metadataStorage,
		hubID:           hubID,
		logger:          logger,
	}
}

// SyncResult contains sync operation results
type SyncResult struct {
	PushedDocuments  int // количество отправленных на хаб документов
	PulledDocuments  int // количество документов, полученных с хаба
	MergedDocuments  int // количество документов, в которые пришли новые события
	CreatedDocuments int // количество документов, впервые полученных с хаба
	Conflicts        int // количество документов с конкурентными изменениями
	SkippedDocuments int // количество пропущенных документов (ошибки мержа)
}

func (r *SyncResult) add(other *SyncResult) {
	r.PushedDocuments += other.PushedDocuments
	r.PulledDocuments += other.PulledDocuments
	r.MergedDocuments += other.MergedDocuments
	r.CreatedDocuments += other.CreatedDocuments
	r.Conflicts += other.Conflicts
	r.SkippedDocuments += other.SkippedDocuments
}

// Sync performs full anti-entropy with the hub
// 1. Pushes the full state of every local document and merges the reply
// 2. Pulls documents the hub has but the replica does not
func (s *service) Sync(ctx context.Context) (*SyncResult, error) {
	s.logger.Info("Starting synchronization", "replica_id", s.docs.ReplicaID())

	result := &SyncResult{}

	names, err := s.docs.Names(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local documents: %w", err)
	}

	local := make(map[string]struct{}, len(names))
	for _, name := range names {
		local[name] = struct{}{}

		docResult, err := s.pushDocument(ctx, name)
		if err != nil {
			return result, err
		}
		result.add(docResult)
	}

	remote, err := s.apiClient.Documents(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list hub documents: %w", err)
	}

	for _, info := range remote {
		if _, ok := local[info.Name]; ok {
			continue
		}

		docResult, err := s.pullDocument(ctx, info.Name)
		if err != nil {
			return result, err
		}
		result.add(docResult)
	}

	s.logger.Info("Synchronization completed",
		"pushed", result.PushedDocuments,
		"pulled", result.PulledDocuments,
		"merged", result.MergedDocuments,
		"created", result.CreatedDocuments,
		"skipped", result.SkippedDocuments,
		"conflicts", result.Conflicts)

	return result, nil
}

// SyncDocument пушит документ, если он есть локально, иначе забирает его с хаба
func (s *service) SyncDocument(ctx context.Context, name string) (*SyncResult, error) {
	if err := provider.ValidateDocumentName(name); err != nil {
		return nil, err
	}

	_, err := s.snapshots.LoadSnapshot(ctx, name)
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return s.pullDocument(ctx, name)
	case err != nil:
		return nil, fmt.Errorf("failed to load document %q: %w", name, err)
	}
	return s.pushDocument(ctx, name)
}

// pushDocument отправляет полное состояние документа и мержит ответ хаба
func (s *service) pushDocument(ctx context.Context, name string) (*SyncResult, error) {
	result := &SyncResult{}

	doc, err := s.docs.Load(ctx, name)
	if err != nil {
		s.logger.Warn("Failed to load document, skipping", "document", name, slog.Any("error", err))
		result.SkippedDocuments++
		return result, nil
	}

	msg, err := s.docs.Dispatcher().CreateSyncMessage(doc, s.hubID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync message for %q: %w", name, err)
	}

	reply, err := s.apiClient.Sync(ctx, name, msg)
	if err != nil {
		// Хаб отклонил документ (например, другой тип) - остальные документы синхронизируем
		if errors.Is(err, api.ErrRejected) {
			s.logger.Warn("Hub rejected document", "document", name, slog.Any("error", err))
			result.SkippedDocuments++
			return result, nil
		}
		return nil, fmt.Errorf("sync request for %q failed: %w", name, err)
	}
	result.PushedDocuments++
	result.PulledDocuments++

	changed, err := s.changedSinceSync(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.mergeReply(ctx, name, doc, reply, changed, result); err != nil {
		return nil, err
	}
	return result, nil
}

// pullDocument создает локальную реплику документа, известного только хабу
func (s *service) pullDocument(ctx context.Context, name string) (*SyncResult, error) {
	result := &SyncResult{}

	if err := provider.ValidateDocumentName(name); err != nil {
		s.logger.Warn("Hub document has invalid name, skipping", "document", name)
		result.SkippedDocuments++
		return result, nil
	}

	reply, err := s.apiClient.Fetch(ctx, name)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return result, nil
		}
		return nil, fmt.Errorf("fetch of %q failed: %w", name, err)
	}
	result.PulledDocuments++

	// Локальная копия принадлежит этой реплике, а не хабу
	doc, err := merge.New[merge.JSONValue](s.docs.Dispatcher(), reply.Type, s.docs.ReplicaID())
	if err != nil {
		s.logger.Warn("Hub document has unknown type, skipping",
			"document", name, "type", reply.Type, slog.Any("error", err))
		result.SkippedDocuments++
		return result, nil
	}

	if err := s.mergeReply(ctx, name, doc, reply, false, result); err != nil {
		return nil, err
	}
	result.CreatedDocuments++
	return result, nil
}

// mergeReply применяет состояние хаба к локальному документу и сохраняет результат.
// changed - документ менялся локально после последней синхронизации: если хаб
// при этом прислал чужие события, изменения были конкурентными
func (s *service) mergeReply(
	ctx context.Context,
	name string,
	doc crdt.CRDT,
	reply *merge.SyncMessage,
	changed bool,
	result *SyncResult,
) error {
	ordering := reply.Ordering(doc.VectorClock())

	if err := merge.Apply[merge.JSONValue](s.docs.Dispatcher(), doc, reply); err != nil {
		s.logger.Warn("Failed to merge hub state",
			"document", name, slog.Any("error", err))
		result.SkippedDocuments++
		return nil
	}

	if ordering == crdt.After || ordering == crdt.Concurrent {
		result.MergedDocuments++
		if changed || ordering == crdt.Concurrent {
			result.Conflicts++
		}
	}

	s.logger.Debug("Merged hub state",
		"document", name,
		"type", doc.Type(),
		"ordering", ordering.String())

	if err := s.docs.Save(ctx, name, doc); err != nil {
		return fmt.Errorf("failed to save merged document: %w", err)
	}

	if err := s.metadataStorage.SaveLastSyncTimestamp(ctx, name, time.Now().UnixMilli()); err != nil {
		s.logger.Warn("Failed to save last sync timestamp", "document", name, slog.Any("error", err))
		// Не прерываем синхронизацию из-за ошибки сохранения timestamp
	}
	return nil
}

// GetPendingSyncCount возвращает количество документов, ожидающих синхронизации
// Документ считается несинхронизированным, если его снимок изменен позже
// последней успешной синхронизации
func (s *service) GetPendingSyncCount(ctx context.Context) (int, error) {
	snapshots, err := s.snapshots.ListSnapshots(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}

	pending := 0
	for _, snapshot := range snapshots {
		if s.modifiedAfterSync(ctx, snapshot) {
			pending++
		}
	}

	return pending, nil
}

// changedSinceSync сообщает, менялся ли локальный документ после последней синхронизации
func (s *service) changedSinceSync(ctx context.Context, name string) (bool, error) {
	snapshot, err := s.snapshots.LoadSnapshot(ctx, name)
	if err != nil {
		return false, fmt.Errorf("failed to load document %q: %w", name, err)
	}
	return s.modifiedAfterSync(ctx, snapshot), nil
}

func (s *service) modifiedAfterSync(ctx context.Context, snapshot *storage.Snapshot) bool {
	lastSync, err := s.metadataStorage.GetLastSyncTimestamp(ctx, snapshot.Name)
	if err != nil {
		// Если timestamp не найден (первая синхронизация), используем 0
		s.logger.Debug("No last sync timestamp found, using 0", "document", snapshot.Name, slog.Any("error", err))
		lastSync = 0
	}
	return snapshot.UpdatedAt.UnixMilli() > lastSync
}
