package httputil

import (
	"log/slog"
	"net/http"
	"time"
)

// MiddlewareLogging logs method, path, status, duration and X-Request-ID.
// Bodies are deliberately not captured: poll traffic arrives once a second
// per client and would drown the log.
func MiddlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &logResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lrw, r)

		reqID, _ := FromContext(r.Context())
		slog.Info("http request",
			"req_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.status,
			"bytes", lrw.bytes,
			"duration", time.Since(start).String(),
		)
	})
}

type logResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *logResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n

	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer, which the
// websocket upgrade relies on for hijacking.
func (w *logResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
