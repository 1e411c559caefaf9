package request

import (
	"net/http"
	"time"
)

// BodyLimit wraps the body in http.MaxBytesReader. The resulting
// *http.MaxBytesError is what httputil.DecodeJSON turns into a 413.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

const timeoutBody = `{"status":"error","error":"timeout","message":"request timed out"}`

// Timeout cancels the request context after d and answers 503 with the
// error envelope.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, timeoutBody)
	}
}
