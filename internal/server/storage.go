package server

import (
	"context"
	"fmt"

	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/server/storage"
	"github.com/iudanet/prefkeeper/internal/server/storage/redis"
	"github.com/iudanet/prefkeeper/internal/server/storage/sqlite"
)

// OpenStorage открывает хранилище документов, выбранное в конфигурации
func OpenStorage(ctx context.Context, cfg config.StorageConfig) (storage.DocumentStorage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
		}
		return store, nil
	case config.DriverRedis:
		store, err := redis.New(ctx, redis.Options{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			Prefix:   cfg.Redis.Prefix,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open redis storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}
