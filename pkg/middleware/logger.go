package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storegraph/pkg/logger"
	"github.com/shashiranjanraj/storegraph/pkg/reqid"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs each request and injects a logger tagged with the request id,
// so resolvers calling logger.WithCtx(ctx) share it.
//
// Wire reqid.Middleware() BEFORE this middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration", time.Since(start).String(),
			"ip", remoteIP(r),
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			attrs = append(attrs, "forwarded_for", fwd)
		}
		reqLog.Log(r.Context(), level, "request", attrs...)
	})
}
