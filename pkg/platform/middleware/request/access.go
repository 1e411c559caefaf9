package request

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sunhex/internal/platform/privacy"
	"sunhex/pkg/requestcontext"
)

// statusRecorder remembers the status a handler wrote. Handlers that never
// call WriteHeader answered 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Access logs one line per request and, when m is set, observes its latency
// under the matched chi route pattern. Probe and scrape traffic is only
// logged when it fails. Bodies are never logged and the client address is
// cut down to its network prefix.
func Access(logger *slog.Logger, m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(began)

			if m != nil {
				m.ObserveRequest(routeOf(r), r.Method, rec.status, elapsed.Seconds())
			}
			if quiet(r.URL.Path) && rec.status < http.StatusInternalServerError {
				return
			}
			ctx := r.Context()
			logger.InfoContext(ctx, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", elapsed.Milliseconds(),
				"request_id", requestcontext.RequestID(ctx),
				"remote_addr_prefix", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
			)
		})
	}
}

func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func quiet(path string) bool {
	return path == "/metrics" || path == "/health" || path == "/health/live" || path == "/health/ready"
}
