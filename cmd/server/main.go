package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/logging"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/server"
	"github.com/iudanet/prefkeeper/internal/server/hub"
	"github.com/iudanet/prefkeeper/internal/server/metrics"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "prefkeeper-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("prefkeeper-server", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "Path to YAML config file")
	showVersion := flags.Bool("version", false, "Show version information")
	flags.String("address", "", "HTTP listen address")
	flags.String("replica-id", "", "Replica id of the hub")
	flags.String("storage", "", "Storage driver: sqlite or redis")
	flags.String("sqlite-path", "", "Path to sqlite database")
	flags.String("redis-address", "", "Redis address")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("compression", "", "Reply compression: none or zstd")

	if err := flags.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		printVersion()
		return nil
	}

	cfg, err := config.LoadServer(*configPath, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", slog.Any("error", err))
		}
	}()

	// zstd запросы принимаются всегда, sync.compression управляет ответами
	zstd, err := merge.NewZstdTransform()
	if err != nil {
		return err
	}
	defer zstd.Close()

	m := metrics.New()
	h := hub.New(store, merge.NewDispatcher(nil, crdt.NewHybridClock()), crdt.ReplicaID(cfg.Server.ReplicaID), m, logger)

	logger.Info("Starting prefkeeper hub",
		"version", Version,
		"replica_id", cfg.Server.ReplicaID,
		"storage", cfg.Storage.Driver,
		"compression", cfg.Sync.Compression)

	srv := server.New(cfg.Server, h, m, server.Options{
		Zstd:            zstd,
		StorageDriver:   cfg.Storage.Driver,
		CompressReplies: cfg.Sync.Zstd(),
	}, logger)

	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("Hub stopped")
	return nil
}

func printVersion() {
	fmt.Printf("prefkeeper server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
