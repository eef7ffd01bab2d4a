package projections

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/subject"
	"classlog/internal/domain/timetable"
)

// mdRenderer turns day notes into HTML. Raw HTML in the note is escaped (WithUnsafe is not set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts a note to safe HTML, falling back to escaped text.
func RenderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// GetDailyScheduleQuery carries input for the daily schedule projection.
type GetDailyScheduleQuery struct {
	Date calendar.Day
}

// GetDailyScheduleDeps holds dependencies for the daily schedule projection.
type GetDailyScheduleDeps struct {
	SlotStore       SlotLister
	WeekSystemStore WeekSystemReader
	SubjectStore    SubjectLister
	EntryStore      EntryLister
	DayNoteStore    DayNoteLister
	Now             func() time.Time
}

// DayNoteView is a day note with its rendered form.
type DayNoteView struct {
	ID       string        `json:"id"`
	Markdown string        `json:"markdown"`
	HTML     template.HTML `json:"html"`
}

// LessonView is one resolved double period joined with its subject and the day's records.
type LessonView struct {
	Subject     subject.Subject `json:"subject"`
	PeriodLabel string          `json:"periodLabel"`
	FirstPeriod int             `json:"firstPeriod"`
	Entries     []entry.Entry   `json:"entries"`
	EvalCounts  map[string]int  `json:"evalCounts"`
	Note        *DayNoteView    `json:"note,omitempty"`
}

// DailyScheduleResult carries the output of the daily schedule projection.
type DailyScheduleResult struct {
	Date     calendar.Day       `json:"date"`
	DayIndex int                `json:"dayIndex"`
	WeekType timetable.WeekType `json:"weekType"`
	Reason   timetable.Reason   `json:"reason"`
	ReadOnly bool               `json:"readOnly"` // past day: entries and notes are frozen
	Lessons  []LessonView       `json:"lessons"`
}

// QueryGetDailySchedule resolves which subjects are taught on a date and attaches that day's entries and notes.
// PRE: Date is non-zero
// POST: Lessons is empty unless Reason is ReasonScheduled; every lesson refers to an existing subject
func QueryGetDailySchedule(ctx context.Context, query GetDailyScheduleQuery, deps GetDailyScheduleDeps) (DailyScheduleResult, error) {
	slots, err := deps.SlotStore.List(ctx)
	if err != nil {
		return DailyScheduleResult{}, err
	}
	settings, _, err := deps.WeekSystemStore.Get(ctx)
	if err != nil {
		return DailyScheduleResult{}, err
	}
	subjects, err := deps.SubjectStore.List(ctx)
	if err != nil {
		return DailyScheduleResult{}, err
	}
	byID := subjectIndex(subjects)

	res := timetable.Resolve(query.Date, slots, &settings).KeepSubjects(func(id string) bool {
		_, ok := byID[id]
		return ok
	})

	result := DailyScheduleResult{
		Date:     res.Date,
		DayIndex: res.DayIndex,
		WeekType: res.WeekType,
		Reason:   res.Reason,
		ReadOnly: query.Date.PastAt(deps.Now()),
		Lessons:  []LessonView{},
	}
	if res.Reason != timetable.ReasonScheduled {
		return result, nil
	}

	entries, err := deps.EntryStore.ListByDate(ctx, query.Date)
	if err != nil {
		return DailyScheduleResult{}, err
	}
	notes, err := deps.DayNoteStore.ListByDate(ctx, query.Date)
	if err != nil {
		return DailyScheduleResult{}, err
	}
	entriesBySubject := make(map[string][]entry.Entry)
	for _, e := range entries {
		entriesBySubject[e.SubjectID] = append(entriesBySubject[e.SubjectID], e)
	}
	notesBySubject := make(map[string]daynote.DayNote, len(notes))
	for _, n := range notes {
		notesBySubject[n.SubjectID] = n
	}

	for _, l := range res.Lessons {
		view := LessonView{
			Subject:     byID[l.SubjectID],
			PeriodLabel: l.PeriodLabel,
			FirstPeriod: l.FirstPeriod,
			Entries:     entriesBySubject[l.SubjectID],
			EvalCounts:  entry.CountByEvaluation(entriesBySubject[l.SubjectID]),
		}
		if view.Entries == nil {
			view.Entries = []entry.Entry{}
		}
		if n, ok := notesBySubject[l.SubjectID]; ok && !n.IsBlank() {
			view.Note = &DayNoteView{ID: n.ID, Markdown: n.Note, HTML: RenderMarkdown(n.Note)}
		}
		result.Lessons = append(result.Lessons, view)
	}
	return result, nil
}
