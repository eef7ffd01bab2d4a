package web

import (
	"context"
	"net/http"
	"time"

	"classlog/internal/adapters/http/middleware"
	"classlog/internal/adapters/http/perf"
	daynoteStore "classlog/internal/adapters/storage/daynote"
	entryStore "classlog/internal/adapters/storage/entry"
	evaluationStore "classlog/internal/adapters/storage/evaluation"
	gradeStore "classlog/internal/adapters/storage/grade"
	scheduleStore "classlog/internal/adapters/storage/schedule"
	subjectStore "classlog/internal/adapters/storage/subject"
)

// Stores holds all storage dependencies.
type Stores struct {
	SubjectStore    subjectStore.Store
	EvaluationStore evaluationStore.Store
	EntryStore      entryStore.Store
	DayNoteStore    daynoteStore.Store
	SlotStore       scheduleStore.SlotStore
	WeekSystemStore scheduleStore.WeekSystemStore
	GradeStore      gradeStore.Store
	ReminderStore   gradeStore.ReminderStore
}

// Options configures the middleware chain.
type Options struct {
	CSRFKey            []byte   // 32 bytes
	TrustedOrigins     []string // extra origins allowed to post forms
	RateLimitPerSecond int
	SlowRequestMs      int // <= 0 selects middleware.DefaultSlowRequestMs
}

// DefaultRateLimitPerSecond is used when Options leaves the rate at zero.
const DefaultRateLimitPerSecond = 20

// perfRoute serves the timing snapshot and is excluded from timing itself.
const perfRoute = "GET /api/perf"

// timeNow is a variable for testability.
var timeNow = time.Now

// Global stores instance (set by NewMux)
var stores *Stores

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// NewMux wires HTTP handlers for the API. The rate limiter's sweeper stops when ctx is cancelled.
// PRE: s has every store set; opts.CSRFKey is 32 bytes
// POST: returns the fully wrapped handler
func NewMux(ctx context.Context, s *Stores, collector *perf.Collector, opts Options) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	registerRoutes(mux)

	rate := opts.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	// Outermost last: SecurityHeaders -> CSRF -> RateLimit -> Timing -> Mux
	return middleware.Chain(mux,
		middleware.Timing(collector, middleware.TimingOptions{SlowRequestMs: opts.SlowRequestMs, Skip: []string{perfRoute}}),
		middleware.RateLimit(limiter),
		middleware.CSRF(opts.CSRFKey, opts.TrustedOrigins...),
		middleware.SecurityHeaders,
	)
}
