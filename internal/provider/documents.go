// Package provider хранит именованные CRDT-документы локальной реплики и
// реализует поверх них провайдер настроек.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/pkg/api"
)

// Имена документов по умолчанию.
const (
	PreferencesDocument = "preferences"

	tagPrefix      = "tag:"
	counterPrefix  = "counter:"
	registerPrefix = "register:"
)

// ValidateDocumentName проверяет имя документа по правилам хаба.
func ValidateDocumentName(name string) error {
	return api.ValidateDocumentName(name)
}

// TagDocument returns the document name of a named tag set.
func TagDocument(name string) string { return tagPrefix + name }

// CounterDocument returns the document name of a named counter.
func CounterDocument(name string) string { return counterPrefix + name }

// RegisterDocument returns the document name of a named register.
func RegisterDocument(name string) string { return registerPrefix + name }

// Documents загружает и сохраняет CRDT-документы реплики. Значения всех
// документов имеют тип merge.JSONValue.
type Documents struct {
	store      storage.SnapshotStore
	dispatcher *merge.Dispatcher
	replicaID  crdt.ReplicaID
}

// NewDocuments создает репозиторий документов реплики replicaID.
func NewDocuments(store storage.SnapshotStore, dispatcher *merge.Dispatcher, replicaID crdt.ReplicaID) *Documents {
	return &Documents{
		store:      store,
		dispatcher: dispatcher,
		replicaID:  replicaID,
	}
}

// ReplicaID returns the local replica id.
func (d *Documents) ReplicaID() crdt.ReplicaID { return d.replicaID }

// Dispatcher returns the dispatcher used for (de)serialization.
func (d *Documents) Dispatcher() *merge.Dispatcher { return d.dispatcher }

// Load читает документ из хранилища.
// Возвращает storage.ErrSnapshotNotFound, если документа нет.
func (d *Documents) Load(ctx context.Context, name string) (crdt.CRDT, error) {
	snapshot, err := d.store.LoadSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}

	doc, err := merge.Deserialize[merge.JSONValue](d.dispatcher, snapshot.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %q: %w", name, err)
	}
	return doc, nil
}

// LoadOrCreate читает документ или создает пустой документ типа t.
// Если документ существует, но имеет другой тип, возвращает merge.ErrTypeMismatch.
func (d *Documents) LoadOrCreate(ctx context.Context, name string, t crdt.Type) (crdt.CRDT, error) {
	if err := ValidateDocumentName(name); err != nil {
		return nil, err
	}

	doc, err := d.Load(ctx, name)
	switch {
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return merge.New[merge.JSONValue](d.dispatcher, t, d.replicaID)
	case err != nil:
		return nil, err
	}

	if doc.Type() != t {
		return nil, fmt.Errorf("%w: document %q is %s, not %s", merge.ErrTypeMismatch, name, doc.Type(), t)
	}
	return doc, nil
}

// Save сохраняет полное состояние документа.
func (d *Documents) Save(ctx context.Context, name string, doc crdt.CRDT) error {
	if err := ValidateDocumentName(name); err != nil {
		return err
	}

	data, err := d.dispatcher.Serialize(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", name, err)
	}

	if err := d.store.SaveSnapshot(ctx, name, data); err != nil {
		return fmt.Errorf("failed to save document %q: %w", name, err)
	}
	return nil
}

// Names returns the names of all local documents.
func (d *Documents) Names(ctx context.Context) ([]string, error) {
	snapshots, err := d.store.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		names = append(names, s.Name)
	}
	return names, nil
}

// Tags возвращает OR-Set с именем name.
func (d *Documents) Tags(ctx context.Context, name string) (*crdt.ORSet[merge.JSONValue], error) {
	doc, err := d.LoadOrCreate(ctx, TagDocument(name), crdt.TypeORSet)
	if err != nil {
		return nil, err
	}
	return as[*crdt.ORSet[merge.JSONValue]](doc)
}

// Counter возвращает PN-счетчик с именем name.
func (d *Documents) Counter(ctx context.Context, name string) (*crdt.PNCounter, error) {
	doc, err := d.LoadOrCreate(ctx, CounterDocument(name), crdt.TypePNCounter)
	if err != nil {
		return nil, err
	}
	return as[*crdt.PNCounter](doc)
}

// Register возвращает LWW-регистр с именем name.
func (d *Documents) Register(ctx context.Context, name string) (*crdt.LWWRegister[merge.JSONValue], error) {
	doc, err := d.LoadOrCreate(ctx, RegisterDocument(name), crdt.TypeLWWRegister)
	if err != nil {
		return nil, err
	}
	return as[*crdt.LWWRegister[merge.JSONValue]](doc)
}

func as[T crdt.CRDT](doc crdt.CRDT) (T, error) {
	typed, ok := doc.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: unexpected %T", merge.ErrTypeMismatch, doc)
	}
	return typed, nil
}
