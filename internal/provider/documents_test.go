package provider

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/crypto"
	"github.com/iudanet/prefkeeper/internal/merge"
)

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"preferences", false},
		{"tag:work", false},
		{"counter:app.launches", false},
		{"register:window-size_1", false},
		{"", true},
		{":leading", true},
		{"with space", true},
		{"slash/inside", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocumentName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDocuments_LoadOrCreate(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	_, err := docs.Load(ctx, "counter:x")
	require.ErrorIs(t, err, storage.ErrSnapshotNotFound)

	doc, err := docs.LoadOrCreate(ctx, "counter:x", crdt.TypePNCounter)
	require.NoError(t, err)
	assert.Equal(t, crdt.TypePNCounter, doc.Type())
	assert.Equal(t, crdt.ReplicaID("r1"), doc.ReplicaID())

	_, err = docs.LoadOrCreate(ctx, "bad name", crdt.TypePNCounter)
	require.ErrorIs(t, err, ErrInvalidDocumentName)

	_, err = docs.LoadOrCreate(ctx, "x", "unknown")
	require.ErrorIs(t, err, crdt.ErrUnknownType)
}

func TestDocuments_NamedHelpers(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDocuments(t, "r1")

	tags, err := docs.Tags(ctx, "work")
	require.NoError(t, err)
	tags.Add(merge.MustJSONValue("urgent"))
	require.NoError(t, docs.Save(ctx, TagDocument("work"), tags))

	counter, err := docs.Counter(ctx, "launches")
	require.NoError(t, err)
	require.NoError(t, counter.Increment(3))
	require.NoError(t, docs.Save(ctx, CounterDocument("launches"), counter))

	register, err := docs.Register(ctx, "window")
	require.NoError(t, err)
	register.Set(merge.MustJSONValue([]int{800, 600}))
	require.NoError(t, docs.Save(ctx, RegisterDocument("window"), register))

	names, err := docs.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"counter:launches", "register:window", "tag:work"}, names)

	tags, err = docs.Tags(ctx, "work")
	require.NoError(t, err)
	assert.True(t, tags.Has(merge.MustJSONValue("urgent")))

	counter, err = docs.Counter(ctx, "launches")
	require.NoError(t, err)
	assert.Equal(t, int64(3), counter.Value())

	register, err = docs.Register(ctx, "window")
	require.NoError(t, err)
	value, ok := register.Get()
	assert.True(t, ok)
	assert.Equal(t, merge.JSONValue("[800,600]"), value)

	// Имя занято документом другого типа
	_, err = docs.Counter(ctx, "launches")
	require.NoError(t, err)
	_, err = docs.LoadOrCreate(ctx, CounterDocument("launches"), crdt.TypeGCounter)
	assert.ErrorIs(t, err, merge.ErrTypeMismatch)
}

func TestDocuments_EncryptedAtRest(t *testing.T) {
	ctx := context.Background()

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "enc.db"))
	require.NoError(t, err)
	defer store.Close()

	salt, err := store.Salt(ctx)
	require.NoError(t, err)
	sealer, err := crypto.NewSealer("passphrase", salt)
	require.NoError(t, err)

	codec := merge.WithTransforms(merge.JSONCodec{}, merge.NewSealTransform(sealer))
	docs := NewDocuments(store, merge.NewDispatcher(codec, crdt.NewHybridClock()), "r1")

	p, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)
	require.NoError(t, p.Set(ctx, "secret", "value"))

	raw, err := store.LoadSnapshot(ctx, PreferencesDocument)
	require.NoError(t, err)
	assert.NotContains(t, string(raw.Data), "secret")

	reopened, err := Open(ctx, docs, PreferencesDocument, discardLogger())
	require.NoError(t, err)
	assert.True(t, reopened.Has("secret"))

	// Без ключа документ не читается
	plain := NewDocuments(store, merge.NewDispatcher(nil, crdt.NewHybridClock()), "r1")
	_, err = plain.Load(ctx, PreferencesDocument)
	assert.ErrorIs(t, err, merge.ErrInvalidMessage)
}

func TestDocuments_StoreErrors(t *testing.T) {
	ctx := context.Background()
	errBroken := errors.New("broken")

	store := &storage.SnapshotStoreMock{
		LoadSnapshotFunc: func(ctx context.Context, name string) (*storage.Snapshot, error) {
			return nil, errBroken
		},
		ListSnapshotsFunc: func(ctx context.Context) ([]*storage.Snapshot, error) {
			return nil, errBroken
		},
	}
	docs := NewDocuments(store, merge.NewDispatcher(nil, crdt.NewManualClock(1)), "r1")

	_, err := docs.LoadOrCreate(ctx, "preferences", crdt.TypeLWWMap)
	assert.ErrorIs(t, err, errBroken)

	_, err = docs.Names(ctx)
	assert.ErrorIs(t, err, errBroken)
}
