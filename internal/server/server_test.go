package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/iudanet/prefkeeper/internal/client/api"
	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/logging"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/server/hub"
	"github.com/iudanet/prefkeeper/internal/server/metrics"
	"github.com/iudanet/prefkeeper/internal/server/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	zstd   *merge.ZstdTransform
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	z, err := merge.NewZstdTransform()
	require.NoError(t, err)
	t.Cleanup(z.Close)

	logger := logging.Discard()
	m := metrics.New()
	h := hub.New(store, merge.NewDispatcher(nil, crdt.NewHybridClock()), "hub", m, logger)

	srv := httptest.NewServer(NewRouter(h, m, Options{Zstd: z, StorageDriver: config.DriverSQLite, CompressReplies: true}, logger))
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, zstd: z}
}

func (e *testEnv) client(opts ...clientapi.Option) *clientapi.Client {
	opts = append([]clientapi.Option{clientapi.WithRetryInterval(time.Millisecond)}, opts...)
	return clientapi.NewClient(e.server.URL, opts...)
}

func TestRouter_EndToEnd(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	d := merge.NewDispatcher(nil, crdt.NewHybridClock())

	tests := []struct {
		name   string
		client *clientapi.Client
	}{
		{name: "plain", client: env.client()},
		{name: "zstd", client: env.client(clientapi.WithCompression(env.zstd))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := "tags-" + tt.name

			tags := crdt.NewORSet[merge.JSONValue]("r1", d.Clock())
			tags.Add(merge.MustJSONValue("work"))

			msg, err := d.CreateSyncMessage(tags, "hub")
			require.NoError(t, err)

			reply, err := tt.client.Sync(ctx, document, msg)
			require.NoError(t, err)
			assert.Equal(t, crdt.ReplicaID("hub"), reply.From)
			assert.Equal(t, crdt.TypeORSet, reply.Type)
			assert.Equal(t, crdt.VectorClock{"r1": 1}, reply.VectorClock)

			// Вторая реплика добавляет свой элемент и получает объединение
			other := crdt.NewORSet[merge.JSONValue]("r2", d.Clock())
			other.Add(merge.MustJSONValue("home"))
			msg, err = d.CreateSyncMessage(other, "hub")
			require.NoError(t, err)

			reply, err = tt.client.Sync(ctx, document, msg)
			require.NoError(t, err)
			require.NoError(t, merge.Apply[merge.JSONValue](d, other, reply))
			assert.True(t, other.Has(merge.MustJSONValue("work")))
			assert.True(t, other.Has(merge.MustJSONValue("home")))

			fetched, err := tt.client.Fetch(ctx, document)
			require.NoError(t, err)
			assert.Equal(t, crdt.VectorClock{"r1": 1, "r2": 1}, fetched.VectorClock)
		})
	}

	client := env.client()

	docs, err := client.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "tags-plain", docs[0].Name)
	assert.Equal(t, "tags-zstd", docs[1].Name)

	health, err := client.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "hub", health.ReplicaID)
	assert.Equal(t, config.DriverSQLite, health.Storage)
}

func TestRouter_Errors(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	client := env.client()
	d := merge.NewDispatcher(nil, crdt.NewHybridClock())

	t.Run("Unknown document", func(t *testing.T) {
		_, err := client.Fetch(ctx, "missing")
		assert.ErrorIs(t, err, clientapi.ErrNotFound)
	})

	t.Run("Type mismatch", func(t *testing.T) {
		counter := crdt.NewGCounter("r1")
		require.NoError(t, counter.Increment(1))
		msg, err := d.CreateSyncMessage(counter, "hub")
		require.NoError(t, err)
		_, err = client.Sync(ctx, "visits", msg)
		require.NoError(t, err)

		register := crdt.NewLWWRegister[merge.JSONValue]("r1", d.Clock())
		register.Set(merge.MustJSONValue(1))
		msg, err = d.CreateSyncMessage(register, "hub")
		require.NoError(t, err)

		_, err = client.Sync(ctx, "visits", msg)
		require.ErrorIs(t, err, clientapi.ErrRejected)

		var statusErr *clientapi.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	})

	t.Run("Invalid document name", func(t *testing.T) {
		counter := crdt.NewGCounter("r1")
		msg, err := d.CreateSyncMessage(counter, "hub")
		require.NoError(t, err)

		_, err = client.Sync(ctx, "_bad", msg)
		assert.ErrorIs(t, err, clientapi.ErrRejected)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, env.server.URL+"/api/v1/sync/visits", nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestRouter_Metrics(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	_, err := env.client().Documents(ctx)
	require.NoError(t, err)

	resp, err := http.Get(env.server.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `prefkeeper_http_requests_total{method="GET",route="/api/v1/documents",status="2xx"} 1`)
	assert.Contains(t, string(body), "prefkeeper_documents 0")
}

func TestServer_ServeAndShutdown(t *testing.T) {
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.Discard()
	m := metrics.New()
	h := hub.New(store, merge.NewDispatcher(nil, crdt.NewHybridClock()), "hub", m, logger)

	cfg := config.HTTPConfig{
		Address:         "127.0.0.1:0",
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
	srv := New(cfg, h, m, Options{StorageDriver: config.DriverSQLite}, logger)
	require.NotNil(t, srv.Handler())

	listener, err := net.Listen("tcp", cfg.Address)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	client := clientapi.NewClient("http://" + listener.Addr().String())
	require.Eventually(t, func() bool {
		_, err := client.Health(context.Background())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
