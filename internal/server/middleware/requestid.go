package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/iudanet/prefkeeper/pkg/api"
)

type requestIDKey struct{}

// maxRequestIDLen ограничивает принятый от клиента идентификатор
const maxRequestIDLen = 64

// RequestID присваивает запросу идентификатор: берет X-Request-ID клиента,
// если он пригоден для логов, иначе генерирует UUID. Идентификатор
// возвращается в заголовке ответа и доступен через RequestIDFromContext.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		w.Header().Set(api.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFromContext возвращает идентификатор запроса или ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}
