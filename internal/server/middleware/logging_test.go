package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// logEntries разбирает вывод slog.JSONHandler построчно
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLogging_Levels(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "implicit 200", body: "{}", status: 0, wantLevel: "INFO"},
		{name: "created", status: http.StatusCreated, wantLevel: "INFO"},
		{name: "not found", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "conflict", status: http.StatusConflict, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := Logging(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			entries := logEntries(t, &buf)
			require.Len(t, entries, 1)
			entry := entries[0]

			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "HTTP request", entry["msg"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, "/api/v1/documents", entry["path"])
			assert.EqualValues(t, wantStatus, entry["status"])
			assert.EqualValues(t, len(tt.body), entry["bytes_written"])
			assert.Contains(t, entry, "duration_ms")
		})
	}
}

func TestLogging_RouteAttributes(t *testing.T) {
	var buf bytes.Buffer

	router := mux.NewRouter()
	router.Use(RequestID, Logging(jsonLogger(&buf)))
	router.HandleFunc("/api/v1/sync/{document}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/preferences", strings.NewReader("payload-secret"))
	req.Header.Set("Content-Encoding", "zstd")
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "preferences", entries[0]["document"])
	assert.Equal(t, "zstd", entries[0]["content_encoding"])
	assert.Equal(t, "req-42", entries[0]["request_id"])
	assert.NotContains(t, buf.String(), "payload-secret")
}

func TestLogging_OptionalAttributesAbsent(t *testing.T) {
	var buf bytes.Buffer
	handler := Logging(jsonLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))

	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "document")
	assert.NotContains(t, entries[0], "content_encoding")
	assert.NotContains(t, entries[0], "request_id")
}

func TestLogging_SkipPaths(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	handler := Logging(jsonLogger(&buf), "/api/v1/health", "/metrics")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for _, path := range []string{"/api/v1/health", "/metrics", "/api/v1/documents"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 3, calls)
	entries := logEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/documents", entries[0]["path"])
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	assert.Equal(t, http.StatusOK, rec.Status())

	rec.WriteHeader(http.StatusConflict)
	rec.WriteHeader(http.StatusOK)
	n, err := rec.Write([]byte("abc"))

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, http.StatusConflict, rec.Status())
	assert.EqualValues(t, 3, rec.written)
}
