// Package server собирает HTTP хаб синхронизации: маршруты gorilla/mux,
// middleware и жизненный цикл http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/server/handlers"
	"github.com/iudanet/prefkeeper/internal/server/hub"
	"github.com/iudanet/prefkeeper/internal/server/metrics"
	"github.com/iudanet/prefkeeper/internal/server/middleware"
	"github.com/iudanet/prefkeeper/pkg/api"
)

// Server HTTP сервер хаба
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        config.HTTPConfig
}

// Options параметры маршрутизатора хаба
type Options struct {
	// Zstd распаковывает сжатые запросы; nil отключает zstd полностью
	Zstd *merge.ZstdTransform
	// StorageDriver отдается в health check
	StorageDriver string
	// CompressReplies сжимает ответы клиентам, принимающим zstd
	CompressReplies bool
}

// New создает сервер
func New(cfg config.HTTPConfig, h *hub.Hub, m *metrics.Metrics, opts Options, logger *slog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(h, m, opts, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
	}
}

// NewRouter регистрирует маршруты API хаба
func NewRouter(h *hub.Hub, m *metrics.Metrics, opts Options, logger *slog.Logger) http.Handler {
	syncHandler := handlers.NewSyncHandler(logger, h, opts.Zstd, opts.CompressReplies)
	healthHandler := handlers.NewHealthHandler(logger, h, string(h.ReplicaID()), opts.StorageDriver)

	router := mux.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Metrics(m),
		middleware.Logging(logger, api.PathHealth, api.PathMetrics),
	)

	router.HandleFunc(api.PathSync, syncHandler.Sync).Methods(http.MethodPost)
	router.HandleFunc(api.PathSync, syncHandler.Fetch).Methods(http.MethodGet)
	router.HandleFunc(api.PathDocuments, syncHandler.Documents).Methods(http.MethodGet)
	router.HandleFunc(api.PathHealth, healthHandler.Health).Methods(http.MethodGet)
	router.Handle(api.PathMetrics, m.Handler()).Methods(http.MethodGet)

	return router
}

// Handler возвращает корневой http.Handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run слушает адрес из конфигурации до отмены ctx, затем корректно
// завершает активные запросы за ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, listener)
}

// Serve как Run, но на готовом listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Hub listening", "address", listener.Addr().String())
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down hub", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
