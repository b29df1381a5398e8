package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/prefkeeper/internal/client/api"
	"github.com/iudanet/prefkeeper/internal/client/storage"
	"github.com/iudanet/prefkeeper/internal/client/storage/boltdb"
	"github.com/iudanet/prefkeeper/internal/client/sync"
	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/crypto"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/provider"
)

// Env открытая локальная реплика и клиенты хаба
type Env struct {
	Config  *config.ClientConfig
	Logger  *slog.Logger
	Store   storage.Store
	Docs    *provider.Documents
	API     api.ClientAPI
	Sync    sync.Service
	closers []func() error
}

// PassphraseFunc возвращает парольную фразу для шифрования снимков
type PassphraseFunc func() (string, error)

// Opener открывает окружение команд по конфигурации
type Opener func(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger, passphrase PassphraseFunc) (*Env, error)

// OpenEnv открывает базу реплики, настраивает кодек снимков и клиент хаба.
// Идентификатор реплики создается при первом запуске и хранится в базе.
func OpenEnv(ctx context.Context, cfg *config.ClientConfig, logger *slog.Logger, passphrase PassphraseFunc) (*Env, error) {
	store, err := boltdb.New(ctx, cfg.Client.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	env := &Env{Config: cfg, Logger: logger, Store: store}
	env.AddCloser(store.Close)

	if err := env.init(ctx, passphrase); err != nil {
		_ = env.Close()
		return nil, err
	}
	return env, nil
}

func (e *Env) init(ctx context.Context, passphrase PassphraseFunc) error {
	replicaID, err := e.Store.ReplicaID(ctx)
	if err != nil {
		return fmt.Errorf("failed to get replica id: %w", err)
	}

	var transforms []merge.Transform
	if e.Config.Client.Encrypt {
		seal, err := e.sealTransform(ctx, passphrase)
		if err != nil {
			return err
		}
		transforms = append(transforms, seal)
	}

	codec := merge.WithTransforms(merge.JSONCodec{}, transforms...)
	e.Docs = provider.NewDocuments(e.Store, merge.NewDispatcher(codec, crdt.NewHybridClock()), replicaID)

	opts := []api.Option{
		api.WithTimeout(e.Config.Client.Timeout),
		api.WithMaxRetries(e.Config.Client.MaxRetries),
		api.WithLogger(e.Logger),
	}
	if e.Config.Sync.Zstd() {
		z, err := merge.NewZstdTransform()
		if err != nil {
			return err
		}
		e.AddCloser(func() error {
			z.Close()
			return nil
		})
		opts = append(opts, api.WithCompression(z))
	}

	client := api.NewClient(e.Config.Client.ServerURL, opts...)
	e.API = client
	e.Sync = sync.NewService(client, e.Docs, e.Store, e.Store, crdt.ReplicaID(e.Config.Client.HubID), e.Logger)

	e.Logger.Debug("Replica opened",
		"replica_id", replicaID,
		"db", e.Config.Client.DBPath,
		"encrypted", e.Config.Client.Encrypt)
	return nil
}

func (e *Env) sealTransform(ctx context.Context, passphrase PassphraseFunc) (merge.Transform, error) {
	salt, err := e.Store.Salt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}

	pass, err := passphrase()
	if err != nil {
		return nil, fmt.Errorf("failed to get passphrase: %w", err)
	}

	sealer, err := crypto.NewSealer(pass, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return merge.NewSealTransform(sealer), nil
}

// Preferences открывает документ настроек из конфигурации
func (e *Env) Preferences(ctx context.Context) (*provider.Provider, error) {
	return provider.Open(ctx, e.Docs, e.Config.Client.Document, e.Logger)
}

// AddCloser регистрирует функцию освобождения ресурса
func (e *Env) AddCloser(fn func() error) {
	e.closers = append(e.closers, fn)
}

// Close освобождает ресурсы в обратном порядке
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}
