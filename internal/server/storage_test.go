package server

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/server/storage"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{
			name: "sqlite",
			cfg: config.StorageConfig{
				Driver: config.DriverSQLite,
				SQLite: config.SQLiteConfig{Path: ":memory:"},
			},
		},
		{
			name: "redis",
			cfg: config.StorageConfig{
				Driver: config.DriverRedis,
				Redis:  config.RedisConfig{Address: mr.Addr(), Prefix: "test"},
			},
		},
		{
			name:    "unknown driver",
			cfg:     config.StorageConfig{Driver: "etcd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStorage(ctx, tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			defer func() { _ = store.Close() }()

			require.NoError(t, store.Ping(ctx))

			_, err = store.GetDocument(ctx, "missing")
			assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
		})
	}
}

func TestOpenStorage_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenStorage(context.Background(), config.StorageConfig{
		Driver: config.DriverRedis,
		Redis:  config.RedisConfig{Address: addr},
	})
	assert.Error(t, err)
}
