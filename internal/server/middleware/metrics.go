package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/prefkeeper/internal/server/metrics"
)

// unmatchedRoute метка для запросов, не попавших ни в один маршрут.
// Сырой путь в метку не пишем: имя документа сделало бы кардинальность неограниченной.
const unmatchedRoute = "unmatched"

// Metrics считает запросы хаба в Prometheus. Маршрут берется из
// шаблона gorilla/mux (/api/v1/sync/{document}), а не из фактического пути.
func Metrics(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.RecordRequestStart()
			defer m.RecordRequestEnd()

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			m.RecordRequest(r.Method, routeTemplate(r), rec.Status(), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
