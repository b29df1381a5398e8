package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/prefkeeper/internal/client/storage"
)

func TestSaveAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	before := time.Now().Add(-time.Second)
	require.NoError(t, store.SaveSnapshot(ctx, "preferences", []byte(`{"type":"lww-map"}`)))

	snapshot, err := store.LoadSnapshot(ctx, "preferences")
	require.NoError(t, err)
	assert.Equal(t, "preferences", snapshot.Name)
	assert.Equal(t, []byte(`{"type":"lww-map"}`), snapshot.Data)
	assert.True(t, snapshot.UpdatedAt.After(before))

	// Перезапись
	require.NoError(t, store.SaveSnapshot(ctx, "preferences", []byte{0x01, 0x02}))
	snapshot, err = store.LoadSnapshot(ctx, "preferences")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, snapshot.Data)
}

func TestLoadSnapshot_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.LoadSnapshot(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)
}

func TestListSnapshots(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	list, err := store.ListSnapshots(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"tag:work", "counter:launches", "preferences"} {
		require.NoError(t, store.SaveSnapshot(ctx, name, []byte(name)))
	}

	list, err = store.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
		assert.Equal(t, []byte(s.Name), s.Data)
	}
	assert.Equal(t, []string{"counter:launches", "preferences", "tag:work"}, names)
}

func TestDeleteSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStorage(t)

	require.NoError(t, store.SaveSnapshot(ctx, "doc", []byte("x")))
	require.NoError(t, store.DeleteSnapshot(ctx, "doc"))

	_, err := store.LoadSnapshot(ctx, "doc")
	assert.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	assert.ErrorIs(t, store.DeleteSnapshot(ctx, "doc"), storage.ErrSnapshotNotFound)
}
