package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "classlog/internal/adapters/http"
	"classlog/internal/adapters/http/perf"
	"classlog/internal/adapters/storage"
	daynoteStore "classlog/internal/adapters/storage/daynote"
	entryStore "classlog/internal/adapters/storage/entry"
	evaluationStore "classlog/internal/adapters/storage/evaluation"
	gradeStore "classlog/internal/adapters/storage/grade"
	scheduleStore "classlog/internal/adapters/storage/schedule"
	subjectStore "classlog/internal/adapters/storage/subject"
	"classlog/internal/application/orchestrators"
	"classlog/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err.Error())
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Performance instrumentation: the manager wraps its handle with timing
	collector := perf.NewCollector(perf.DefaultRingSize)
	manager := storage.NewManager(cfg.DBPath, collector, cfg.SlowQueryMs)
	if _, err := manager.Open(ctx); err != nil {
		slog.Error("storage_unavailable", "path", cfg.DBPath, "error", err.Error())
		os.Exit(1)
	}
	defer manager.Close()

	schemaVersion, err := manager.Version(ctx)
	if err != nil {
		slog.Error("storage_unavailable", "path", cfg.DBPath, "error", err.Error())
		os.Exit(1)
	}

	stores := &web.Stores{
		SubjectStore:    subjectStore.NewSQLiteStore(manager),
		EvaluationStore: evaluationStore.NewSQLiteStore(manager),
		EntryStore:      entryStore.NewSQLiteStore(manager),
		DayNoteStore:    daynoteStore.NewSQLiteStore(manager),
		SlotStore:       scheduleStore.NewSQLiteSlotStore(manager),
		WeekSystemStore: scheduleStore.NewSQLiteWeekSystemStore(manager),
		GradeStore:      gradeStore.NewSQLiteStore(manager),
		ReminderStore:   gradeStore.NewSQLiteReminderStore(manager),
	}

	// Seed default subjects and evaluation types into empty collections
	if cfg.SeedDefaults {
		seedDeps := orchestrators.SeedDefaultsDeps{
			SubjectStore:    stores.SubjectStore,
			EvaluationStore: stores.EvaluationStore,
		}
		if _, err := orchestrators.ExecuteSeedDefaults(ctx, seedDeps); err != nil {
			slog.Error("seed_failed", "error", err.Error())
			os.Exit(1)
		}
	}

	orchestrators.StartReminderWatcher(ctx, orchestrators.ReminderDeps{
		ReminderStore: stores.ReminderStore,
		Now:           time.Now,
	}, orchestrators.DefaultReminderCheckInterval)

	handler := web.NewMux(ctx, stores, collector, web.Options{
		CSRFKey:            cfg.CSRFKey,
		TrustedOrigins:     cfg.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		SlowRequestMs:      cfg.SlowRequestMs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("shutdown_incomplete", "error", err.Error())
		}
	}()

	slog.Info("server_starting",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"db_path", cfg.DBPath,
		"schema", schemaVersion,
		"slow_query_ms", cfg.SlowQueryMs,
		"slow_request_ms", cfg.SlowRequestMs,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
	slog.Info("server_stopped")
}

// setupLogging installs the default slog logger: JSON in production, text otherwise.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler
	if cfg.Production() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
