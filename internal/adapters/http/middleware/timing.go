package middleware

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"classlog/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

// unmatched labels requests no route claimed (404 and 405 answers).
const unmatched = "unmatched"

// TimingOptions configures Timing.
type TimingOptions struct {
	SlowRequestMs int      // <= 0 selects DefaultSlowRequestMs
	Skip          []string // route patterns served untimed, e.g. "GET /api/perf"
}

var requestIDCounter uint64

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader records code and forwards it.
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Timing returns middleware that logs and records request durations per route.
// It must wrap the *http.ServeMux directly: the mux stores the matched pattern on
// the request it is handed, so "/api/subjects/{id}" aggregates across ids.
// Normal requests log at DEBUG; slow requests log at WARN.
func Timing(collector *perf.Collector, opts TimingOptions) func(http.Handler) http.Handler {
	threshold := float64(opts.SlowRequestMs)
	if threshold <= 0 {
		threshold = DefaultSlowRequestMs
	}
	skipped := make(map[string]bool, len(opts.Skip))
	for _, p := range opts.Skip {
		skipped[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				route := routeLabel(r)
				if skipped[route] {
					return
				}
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0

				attrs := []any{
					"request_id", atomic.AddUint64(&requestIDCounter, 1),
					"route", route,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				}
				if durationMs >= threshold {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}

				if collector != nil {
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Label:      route,
						StatusCode: sw.status,
						DurationMs: durationMs,
						Timestamp:  start,
					})
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routeLabel is the matched pattern, or "<METHOD> unmatched" when the mux found no route.
func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Method + " " + unmatched
}
