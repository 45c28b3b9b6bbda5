package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"home-vault/internal/metrics"
)

type ctxKey struct {
	name string
}

var requestIDKey = ctxKey{name: "request_id"}

func requestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// requestLogger логгер с request_id, если middleware уже отработал.
func requestLogger(r *http.Request) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id := requestIDFromContext(r.Context()); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

// requestIDMiddleware берёт X-Request-ID клиента или генерирует новый и возвращает его в ответе.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(HeaderRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// maxBytesMiddleware ограничивает тело запроса. Должен стоять первым в цепочке:
// MaxBytesReader закрывает соединение после 413 только если получил исходный
// ResponseWriter сервера, а не обёртку вроде statusRecorder.
func maxBytesMiddleware(limit int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// accessLogMiddleware пишет метрики и строку лога на каждый запрос.
// Метка route шаблон маршрута, а не сырой URL, чтобы не раздувать кардинальность.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := unknownRoute
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		duration := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, route, rec.status, duration)

		requestLogger(r).WithFields(logrus.Fields{
			"method":   r.Method,
			"route":    route,
			"status":   rec.status,
			"duration": duration.String(),
		}).Debug(LogRequestServed)
	})
}

// corsMiddleware аналог CrossOrigin("*"): разрешаем origin из конфига, preflight отвечаем сразу.
func corsMiddleware(allowedOrigin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range, "+HeaderRequestID)
			w.Header().Set("Access-Control-Expose-Headers", HeaderDisposition+", "+HeaderRequestID)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
