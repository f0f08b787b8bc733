package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

func StructuredRequestLogger(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", r.Header.Get(RequestIDHeader),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.WarnContext(r.Context(), "backend request failed", append(attrs, "error", err)...)
				return nil, err
			}
			attrs = append(attrs, "status", resp.StatusCode)
			if resp.StatusCode >= 500 {
				logger.WarnContext(r.Context(), "backend request", attrs...)
			} else {
				logger.DebugContext(r.Context(), "backend request", attrs...)
			}
			return resp, nil
		})
	}
}
