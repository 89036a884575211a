package scopekit

import "net/http"

// Middleware is implemented by container-managed pipeline stages.
//
// A Middleware is registered with the container like any other service and is
// resolved from the request scope on each request. The next stage of the
// pipeline is supplied to its constructor as an [http.Handler] dependency.
//
// Example:
//
//	type RequestLogger struct {
//		log  *slog.Logger
//		next http.Handler
//	}
//
//	func NewRequestLogger(log *slog.Logger, next http.Handler) *RequestLogger {
//		return &RequestLogger{log: log, next: next}
//	}
//
//	func (m *RequestLogger) Handle(w http.ResponseWriter, r *http.Request) {
//		m.log.InfoContext(r.Context(), "request", "path", r.URL.Path)
//		m.next.ServeHTTP(w, r)
//	}
type Middleware interface {
	Handle(w http.ResponseWriter, r *http.Request)
}
