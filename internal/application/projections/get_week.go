package projections

import (
	"context"
	"time"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/timetable"
)

// DaysPerWeek is the width of the weekly grid.
const DaysPerWeek = 7

// GetWeekQuery carries input for the weekly grid projection.
// Start may be any day; the grid begins at its Monday.
type GetWeekQuery struct {
	Start calendar.Day
}

// GetWeekDeps holds dependencies for the weekly grid projection.
type GetWeekDeps struct {
	EntryStore      EntryLister
	WeekSystemStore WeekSystemReader
	Now             func() time.Time
}

// WeekDay is one column of the weekly grid.
type WeekDay struct {
	Date      calendar.Day             `json:"date"`
	IsWeekend bool                     `json:"isWeekend"`
	IsPast    bool                     `json:"isPast"`
	Total     int                      `json:"total"`
	BySubject map[string][]entry.Entry `json:"bySubject"`
}

// WeekResult carries the output of the weekly grid projection.
type WeekResult struct {
	Start    calendar.Day       `json:"start"`
	End      calendar.Day       `json:"end"`
	WeekType timetable.WeekType `json:"weekType"`
	Days     []WeekDay          `json:"days"`
	Total    int                `json:"total"`
}

// QueryGetWeek groups a week's entries by day and subject.
// PRE: Start is non-zero
// POST: Days has exactly seven elements, Monday first
func QueryGetWeek(ctx context.Context, query GetWeekQuery, deps GetWeekDeps) (WeekResult, error) {
	monday := query.Start.Monday()
	sunday := monday.AddDays(DaysPerWeek - 1)

	settings, _, err := deps.WeekSystemStore.Get(ctx)
	if err != nil {
		return WeekResult{}, err
	}
	entries, err := deps.EntryStore.ListByDateRange(ctx, monday, sunday)
	if err != nil {
		return WeekResult{}, err
	}

	now := deps.Now()
	result := WeekResult{Start: monday, End: sunday, Days: make([]WeekDay, DaysPerWeek)}
	if settings.Active() {
		result.WeekType = timetable.WeekTypeFor(monday, settings.ReferenceDate)
	}
	for i := range result.Days {
		d := monday.AddDays(i)
		result.Days[i] = WeekDay{
			Date:      d,
			IsWeekend: timetable.DayIndex(d) == timetable.Weekend,
			IsPast:    d.PastAt(now),
			BySubject: make(map[string][]entry.Entry),
		}
	}
	for _, e := range entries {
		i := monday.DaysUntil(e.Date)
		if i < 0 || i >= DaysPerWeek {
			continue
		}
		day := &result.Days[i]
		day.BySubject[e.SubjectID] = append(day.BySubject[e.SubjectID], e)
		day.Total++
		result.Total++
	}
	return result, nil
}
