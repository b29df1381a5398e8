package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/iudanet/prefkeeper/internal/crdt"
	"github.com/iudanet/prefkeeper/internal/merge"
	"github.com/iudanet/prefkeeper/internal/server/storage"
	"github.com/iudanet/prefkeeper/pkg/api"
)

// MaxMessageSize ограничение размера тела запроса синхронизации (после распаковки тоже)
const MaxMessageSize = 8 << 20

//go:generate moq -out sync_hub_mock.go . SyncHub

// SyncHub операции хаба, которые использует HTTP слой
type SyncHub interface {
	Sync(ctx context.Context, name string, msg *merge.SyncMessage) (*merge.SyncMessage, error)
	Fetch(ctx context.Context, name string) (*merge.SyncMessage, error)
	Documents(ctx context.Context) ([]api.DocumentInfo, error)
}

// SyncHandler обрабатывает запросы синхронизации документов
type SyncHandler struct {
	logger          *slog.Logger
	hub             SyncHub
	zstd            *merge.ZstdTransform
	compressReplies bool
}

// NewSyncHandler создает handler синхронизации. zstd может быть nil:
// тогда сжатые запросы отклоняются. Ответы сжимаются только при
// compressReplies и Accept-Encoding: zstd у клиента.
func NewSyncHandler(logger *slog.Logger, hub SyncHub, zstd *merge.ZstdTransform, compressReplies bool) *SyncHandler {
	return &SyncHandler{
		logger:          logger,
		hub:             hub,
		zstd:            zstd,
		compressReplies: compressReplies && zstd != nil,
	}
}

// Sync обрабатывает POST /api/v1/sync/{document}.
// Сливает полученное состояние с копией хаба и возвращает объединенное.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := mux.Vars(r)["document"]

	body, status, err := h.readBody(r)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read sync request", "document", name, slog.Any("error", err))
		sendError(w, h.logger, err.Error(), status)
		return
	}

	var msg merge.SyncMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		h.logger.WarnContext(ctx, "failed to decode sync message", "document", name, slog.Any("error", err))
		sendError(w, h.logger, "invalid sync message", http.StatusBadRequest)
		return
	}

	reply, err := h.hub.Sync(ctx, name, &msg)
	if err != nil {
		h.sendHubError(w, r, name, err)
		return
	}

	h.sendMessage(w, r, reply)
}

// Fetch обрабатывает GET /api/v1/sync/{document}
func (h *SyncHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["document"]

	msg, err := h.hub.Fetch(r.Context(), name)
	if err != nil {
		h.sendHubError(w, r, name, err)
		return
	}

	h.sendMessage(w, r, msg)
}

// Documents обрабатывает GET /api/v1/documents
func (h *SyncHandler) Documents(w http.ResponseWriter, r *http.Request) {
	docs, err := h.hub.Documents(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list documents", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, api.DocumentsResponse{Documents: docs}, http.StatusOK)
}

// readBody читает тело запроса и распаковывает zstd
func (h *SyncHandler) readBody(r *http.Request) ([]byte, int, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxMessageSize+1))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > MaxMessageSize {
		return nil, http.StatusRequestEntityTooLarge, errors.New("sync message too large")
	}

	switch enc := r.Header.Get(api.HeaderContentEncoding); enc {
	case "", "identity":
		return body, http.StatusOK, nil
	case api.EncodingZstd:
		if h.zstd == nil {
			return nil, http.StatusUnsupportedMediaType, errors.New("zstd encoding is disabled")
		}
		decoded, err := h.zstd.DecodeLimit(body, MaxMessageSize)
		if errors.Is(err, merge.ErrTooLarge) {
			return nil, http.StatusRequestEntityTooLarge, errors.New("sync message too large")
		}
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		return decoded, http.StatusOK, nil
	default:
		return nil, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content encoding %q", enc)
	}
}

// sendMessage отправляет конверт, сжимая его, если клиент это принимает
func (h *SyncHandler) sendMessage(w http.ResponseWriter, r *http.Request, msg *merge.SyncMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode sync message", slog.Any("error", err))
		sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Vary", api.HeaderAcceptEncoding)
	if h.compressReplies && acceptsZstd(r) {
		if data, err = h.zstd.Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to compress sync message", slog.Any("error", err))
			sendError(w, h.logger, "internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set(api.HeaderContentEncoding, api.EncodingZstd)
	}

	w.Header().Set(api.HeaderContentType, api.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write sync response", slog.Any("error", err))
	}
}

// sendHubError отображает ошибки хаба на HTTP статусы
func (h *SyncHandler) sendHubError(w http.ResponseWriter, r *http.Request, name string, err error) {
	status := hubErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "sync request failed", "document", name, slog.Any("error", err))
		sendError(w, h.logger, "internal server error", status)
		return
	}

	h.logger.WarnContext(r.Context(), "sync request rejected", "document", name, "status", status, slog.Any("error", err))
	sendError(w, h.logger, err.Error(), status)
}

func hubErrorStatus(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidDocumentName),
		errors.Is(err, crdt.ErrUnknownType),
		errors.Is(err, merge.ErrInvalidMessage):
		return http.StatusBadRequest
	case errors.Is(err, merge.ErrTypeMismatch):
		return http.StatusConflict
	case errors.Is(err, storage.ErrDocumentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func acceptsZstd(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get(api.HeaderAcceptEncoding), ",") {
		coding, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(coding, api.EncodingZstd) {
			return true
		}
	}
	return false
}
