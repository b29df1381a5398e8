// Package api содержит типы HTTP API хаба синхронизации. Тело запросов и
// ответов синхронизации - конверт merge.SyncMessage в JSON (опционально
// сжатый zstd); здесь описаны остальные ответы и общие константы.
package api

// Маршруты API хаба
const (
	PathSync      = "/api/v1/sync/{document}"
	PathDocuments = "/api/v1/documents"
	PathHealth    = "/api/v1/health"
	PathMetrics   = "/metrics"
)

// Заголовки и значения для согласования сжатия
const (
	HeaderContentEncoding = "Content-Encoding"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentType     = "Content-Type"
	HeaderRequestID       = "X-Request-ID"
	EncodingZstd          = "zstd"
	ContentTypeJSON       = "application/json"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse ответ на проверку состояния хаба
type HealthResponse struct {
	Status    string `json:"status"`     // "ok"
	ReplicaID string `json:"replica_id"` // идентификатор реплики хаба
	Storage   string `json:"storage"`    // драйвер хранилища
}
