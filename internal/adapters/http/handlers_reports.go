package web

import (
	"net/http"
	"strconv"
	"time"

	"classlog/internal/application/projections"
)

// handleHistory handles GET /api/history?days=.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}
	result, err := projections.QueryGetHistory(r.Context(), projections.GetHistoryQuery{Days: days},
		projections.GetHistoryDeps{EntryStore: stores.EntryStore, Now: timeNow})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStatistics handles GET /api/statistics.
func handleStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetStatistics(r.Context(), projections.GetStatisticsDeps{
		SubjectStore:    stores.SubjectStore,
		EvaluationStore: stores.EvaluationStore,
		EntryStore:      stores.EntryStore,
		GradeStore:      stores.GradeStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePerf handles GET /api/perf?minutes=&top=.
// Returns request percentiles and the slowest requests and queries.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		http.Error(w, "performance collection disabled", http.StatusNotFound)
		return
	}
	minutes := 15
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		minutes = m
	}
	top := 10
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 && n <= 100 {
		top = n
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, top))
}
