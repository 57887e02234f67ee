package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/affinity/pkg/logger"
	"github.com/okian/affinity/pkg/metrics"
)

const (
	statusBadRequest      = 400
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500

	maxBodyBytes = 1 << 20
)

// MetricsMiddleware records request counts, latency and error breakdowns
// for endpoint. Panics in next are answered with 500.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				logger.Get().Error(r.Context(), "handler panic",
					logger.String("endpoint", endpoint),
					logger.Any("panic", rec),
				)
				if !wrapped.wroteHeader {
					writeError(wrapped, http.StatusInternalServerError, "internal_error", nil)
				}
			}

			durationMs := float64(time.Since(start).Milliseconds())
			statusCodeStr := strconv.Itoa(wrapped.statusCode)
			metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

			if wrapped.statusCode >= statusBadRequest {
				errorType := getErrorType(wrapped.statusCode)
				metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
				metrics.RecordErrorByType(errorType, getErrorSeverity(wrapped.statusCode))
				metrics.RecordErrorLatency("http", errorType, durationMs)
			}
		}()

		next.ServeHTTP(wrapped, r)
	}
}

func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "high"
	case statusCode >= statusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// responseWriter captures the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
