package projections

import (
	"context"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/grade"
	"classlog/internal/domain/subject"
)

// GetStatisticsDeps holds dependencies for the statistics projection.
type GetStatisticsDeps struct {
	SubjectStore    SubjectLister
	EvaluationStore EvaluationLister
	EntryStore      EntryLister
	GradeStore      GradeLister
}

// SubjectStatistics aggregates one subject's entries and grades.
type SubjectStatistics struct {
	Subject      subject.Subject `json:"subject"`
	TotalEntries int             `json:"totalEntries"`
	EvalCounts   map[string]int  `json:"evalCounts"`
	LastActivity calendar.Day    `json:"lastActivity"`
	GradeCount   int             `json:"gradeCount"`
	GradeAverage *float64        `json:"gradeAverage,omitempty"`
}

// EvaluationShare is an evaluation type's portion of all entries.
type EvaluationShare struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// StatisticsResult carries the output of the statistics projection.
type StatisticsResult struct {
	Subjects     []SubjectStatistics `json:"subjects"`
	Evaluations  []EvaluationShare   `json:"evaluations"`
	TotalEntries int                 `json:"totalEntries"`
	// Orphaned counts entries whose subject no longer exists.
	Orphaned int `json:"orphaned"`
}

// QueryGetStatistics computes per-subject totals in subject display order.
// PRE: none
// POST: Subjects has one element per existing subject, including those without entries
func QueryGetStatistics(ctx context.Context, deps GetStatisticsDeps) (StatisticsResult, error) {
	subjects, err := deps.SubjectStore.List(ctx)
	if err != nil {
		return StatisticsResult{}, err
	}
	types, err := deps.EvaluationStore.List(ctx)
	if err != nil {
		return StatisticsResult{}, err
	}
	entries, err := deps.EntryStore.List(ctx)
	if err != nil {
		return StatisticsResult{}, err
	}
	grades, err := deps.GradeStore.List(ctx)
	if err != nil {
		return StatisticsResult{}, err
	}

	entriesBySubject := make(map[string][]entry.Entry)
	for _, e := range entries {
		entriesBySubject[e.SubjectID] = append(entriesBySubject[e.SubjectID], e)
	}
	gradesBySubject := make(map[string][]grade.Grade)
	for _, g := range grades {
		gradesBySubject[g.SubjectID] = append(gradesBySubject[g.SubjectID], g)
	}

	result := StatisticsResult{
		Subjects:     make([]SubjectStatistics, 0, len(subjects)),
		Evaluations:  make([]EvaluationShare, 0, len(types)),
		TotalEntries: len(entries),
		Orphaned:     len(entries),
	}
	for _, s := range subjects {
		es := entriesBySubject[s.ID]
		stat := SubjectStatistics{
			Subject:      s,
			TotalEntries: len(es),
			EvalCounts:   entry.CountByEvaluation(es),
			GradeCount:   len(gradesBySubject[s.ID]),
		}
		for _, e := range es {
			if e.Date.After(stat.LastActivity) {
				stat.LastActivity = e.Date
			}
		}
		if avg, ok := grade.Average(gradesBySubject[s.ID]); ok {
			stat.GradeAverage = &avg
		}
		result.Orphaned -= len(es)
		result.Subjects = append(result.Subjects, stat)
	}

	totals := entry.CountByEvaluation(entries)
	for _, t := range types {
		share := EvaluationShare{ID: t.ID, Name: t.Name, Color: t.Color, Count: totals[t.ID]}
		if len(entries) > 0 {
			share.Percent = float64(share.Count) * 100 / float64(len(entries))
		}
		result.Evaluations = append(result.Evaluations, share)
	}
	return result, nil
}
