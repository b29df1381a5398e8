package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDocuments(t *testing.T, replicaID crdt.ReplicaID) (*Documents, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dispatcher := merge.NewDispatcher(nil, crdt.NewHybridClock())
	return NewDocuments(store, dispatcher, replicaID), store
}

func TestProvider_SetGet(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	require.NoError(t, p.Set(ctx, "theme", "dark"))
	require.NoError(t, p.Set(ctx, "font", map[string]any{"size": 14}))

	value, ok := p.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, merge.JSONValue(`"dark"`), value)
	assert.True(t, p.Has("font"))
	assert.False(t, p.Has("missing"))

	assert.Equal(t, map[string]merge.JSONValue{
		"theme": `"dark"`,
		"font":  `{"size":14}`,
	}, p.GetAll())
}

func TestProvider_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	require.NoError(t, p.Set(ctx, "a", 1))
	require.NoError(t, p.Set(ctx, "b", 2))
	require.NoError(t, p.Delete(ctx, "a"))

	assert.False(t, p.Has("a"))
	assert.Len(t, p.GetAll(), 1)

	require.NoError(t, p.Clear(ctx))
	assert.Empty(t, p.GetAll())
	assert.Equal(t, 2, p.Document().TotalLen(), "Clear should keep tombstones")
}

func TestProvider_InvalidKey(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	assert.ErrorIs(t, p.Set(ctx, "", 1), ErrEmptyKey)
	assert.ErrorIs(t, p.Delete(ctx, ""), ErrEmptyKey)
	assert.ErrorIs(t, p.Set(ctx, "line\nbreak", 1), ErrInvalidKey)
	assert.False(t, p.Has("line\nbreak"))
}

func TestProvider_InvalidValue(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	err = p.Set(ctx, "bad", func() {})
	assert.ErrorIs(t, err, merge.ErrInvalidJSON)
	assert.False(t, p.Has("bad"))
}

func TestProvider_ReopenKeepsTombstones(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)
	require.NoError(t, p.Set(ctx, "theme", "dark"))
	require.NoError(t, p.Delete(ctx, "theme"))
	require.NoError(t, p.Set(ctx, "lang", "ru"))

	reopened, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, p.Document().Entries(), reopened.Document().Entries())
	assert.Equal(t, crdt.ReplicaID("r1"), reopened.Document().ReplicaID())

	// Старое значение с другой реплики не воскрешает удаленный ключ
	stale := crdt.NewLWWMap[string, merge.JSONValue]("r2", crdt.NewManualClock(1))
	stale.Set("theme", merge.MustJSONValue("light"))
	reopened.Document().Merge(stale)
	assert.False(t, reopened.Has("theme"))
}

func TestProvider_SaveError(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk full")

	store := &storage.SnapshotStoreMock{
		LoadSnapshotFunc: func(ctx context.Context, name string) (*storage.Snapshot, error) {
			return nil, storage.ErrSnapshotNotFound
		},
		SaveSnapshotFunc: func(ctx context.Context, name string, data []byte) error {
			return errDisk
		},
	}
	docs := NewDocuments(store, merge.NewDispatcher(nil, crdt.NewManualClock(1)), "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)

	err = p.Set(ctx, "theme", "dark")
	require.ErrorIs(t, err, errDisk)
	assert.Len(t, store.SaveSnapshotCalls(), 1)
	assert.Equal(t, PreferencesDocument, store.SaveSnapshotCalls()[0].Name)
}

func TestProvider_OpenWrongType(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	require.NoError(t, docs.Save(ctx, "prefs", crdt.NewGCounter("r1")))

	_, err := Open(ctx, docs, "prefs", discardLogger())
	assert.ErrorIs(t, err, merge.ErrTypeMismatch)
}
