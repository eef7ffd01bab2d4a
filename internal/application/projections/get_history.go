package projections

import (
	"context"
	"sort"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/entry"
)

// History window bounds, in days.
const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
)

// GetHistoryQuery carries input for the history projection.
// Days outside 1..MaxHistoryDays falls back to DefaultHistoryDays.
type GetHistoryQuery struct {
	Days int
}

// GetHistoryDeps holds dependencies for the history projection.
type GetHistoryDeps struct {
	EntryStore EntryLister
	Now        func() time.Time
}

// HistoryDay summarises one day that has at least one entry.
type HistoryDay struct {
	Date      calendar.Day   `json:"date"`
	Total     int            `json:"total"`
	BySubject map[string]int `json:"bySubject"`
	ByEval    map[string]int `json:"byEvaluation"`
}

// HistoryResult carries the output of the history projection.
type HistoryResult struct {
	From  calendar.Day `json:"from"`
	To    calendar.Day `json:"to"`
	Days  []HistoryDay `json:"days"`
	Total int          `json:"total"`
}

// QueryGetHistory lists the most recent days with activity.
// PRE: none
// POST: Days is sorted newest first; days without entries are omitted
func QueryGetHistory(ctx context.Context, query GetHistoryQuery, deps GetHistoryDeps) (HistoryResult, error) {
	n := query.Days
	if n < 1 || n > MaxHistoryDays {
		n = DefaultHistoryDays
	}
	today := calendar.FromTime(deps.Now())
	from := today.AddDays(-(n - 1))

	entries, err := deps.EntryStore.ListByDateRange(ctx, from, today)
	if err != nil {
		return HistoryResult{}, err
	}

	byDate := make(map[calendar.Day][]entry.Entry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	result := HistoryResult{From: from, To: today, Days: make([]HistoryDay, 0, len(byDate)), Total: len(entries)}
	for d, es := range byDate {
		result.Days = append(result.Days, HistoryDay{
			Date:      d,
			Total:     len(es),
			BySubject: entry.CountBySubject(es),
			ByEval:    entry.CountByEvaluation(es),
		})
	}
	sort.Slice(result.Days, func(i, j int) bool {
		return result.Days[i].Date.After(result.Days[j].Date)
	})
	return result, nil
}
