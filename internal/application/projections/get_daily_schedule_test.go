package projections

import (
	"context"
	"strings"
	"testing"

	"classlog/internal/domain/calendar"
	"classlog/internal/domain/daynote"
	"classlog/internal/domain/entry"
	"classlog/internal/domain/timetable"
)

func abWeekSystem() *mockWeekSystemStore {
	return &mockWeekSystemStore{
		settings: timetable.WeekSystem{Enabled: true, ReferenceDate: day("2024-09-02")},
		found:    true,
	}
}

// mondaySlots puts math on 1./2. in A weeks, german on 3./4. in B weeks and english on 5./6. in both.
func mondaySlots() *mockSlotStore {
	return &mockSlotStore{slots: []timetable.Slot{
		{ID: "1", SubjectID: "german", DayOfWeek: 0, Period: 4, WeekType: timetable.WeekB},
		{ID: "2", SubjectID: "german", DayOfWeek: 0, Period: 3, WeekType: timetable.WeekB},
		{ID: "3", SubjectID: "math", DayOfWeek: 0, Period: 1, WeekType: timetable.WeekA},
		{ID: "4", SubjectID: "math", DayOfWeek: 0, Period: 2, WeekType: timetable.WeekA},
		{ID: "5", SubjectID: "english", DayOfWeek: 0, Period: 5},
		{ID: "6", SubjectID: "english", DayOfWeek: 0, Period: 6},
	}}
}

func dailyDeps(slots *mockSlotStore, system *mockWeekSystemStore) GetDailyScheduleDeps {
	return GetDailyScheduleDeps{
		SlotStore:       slots,
		WeekSystemStore: system,
		SubjectStore:    testSubjects(),
		EntryStore:      &mockEntryStore{},
		DayNoteStore:    &mockDayNoteStore{},
		Now:             fixedNow,
	}
}

func lessonSubjects(r DailyScheduleResult) string {
	ids := make([]string, 0, len(r.Lessons))
	for _, l := range r.Lessons {
		ids = append(ids, l.Subject.ID+"@"+l.PeriodLabel)
	}
	return strings.Join(ids, ",")
}

// TestQueryGetDailySchedule_Resolution covers the weekend, empty and A/B cases on concrete dates.
func TestQueryGetDailySchedule_Resolution(t *testing.T) {
	tests := []struct {
		name       string
		date       calendar.Day
		slots      *mockSlotStore
		system     *mockWeekSystemStore
		wantReason timetable.Reason
		wantWeek   timetable.WeekType
		want       string
	}{
		{"saturday", day("2024-09-07"), mondaySlots(), abWeekSystem(), timetable.ReasonWeekend, timetable.WeekA, ""},
		{"no slots", day("2024-09-02"), &mockSlotStore{}, abWeekSystem(), timetable.ReasonNoSchedule, timetable.WeekA, ""},
		{"week A monday", day("2024-09-02"), mondaySlots(), abWeekSystem(), timetable.ReasonScheduled, timetable.WeekA, "math@1./2."},
		{"week B monday", day("2024-09-09"), mondaySlots(), abWeekSystem(), timetable.ReasonScheduled, timetable.WeekB, "german@3./4."},
		{"system off", day("2024-09-09"), mondaySlots(), &mockWeekSystemStore{}, timetable.ReasonScheduled, timetable.WeekNone, "english@5./6."},
		{"free tuesday", day("2024-09-03"), mondaySlots(), abWeekSystem(), timetable.ReasonFreeDay, timetable.WeekA, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := QueryGetDailySchedule(context.Background(), GetDailyScheduleQuery{Date: tt.date}, dailyDeps(tt.slots, tt.system))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %s, want %s", res.Reason, tt.wantReason)
			}
			if res.WeekType != tt.wantWeek {
				t.Errorf("WeekType = %q, want %q", res.WeekType, tt.wantWeek)
			}
			if got := lessonSubjects(res); got != tt.want {
				t.Errorf("lessons = %q, want %q", got, tt.want)
			}
			if res.Lessons == nil {
				t.Error("Lessons should never be nil")
			}
		})
	}
}

// TestQueryGetDailySchedule_SubjectsMissing drops dangling slots.
func TestQueryGetDailySchedule_SubjectsMissing(t *testing.T) {
	slots := &mockSlotStore{slots: []timetable.Slot{
		{ID: "1", SubjectID: "deleted", DayOfWeek: 0, Period: 1},
	}}
	res, err := QueryGetDailySchedule(context.Background(), GetDailyScheduleQuery{Date: day("2024-09-02")},
		dailyDeps(slots, &mockWeekSystemStore{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reason != timetable.ReasonSubjectsMissing || len(res.Lessons) != 0 {
		t.Errorf("got %s with %d lessons, want subjects_missing and none", res.Reason, len(res.Lessons))
	}
}

// TestQueryGetDailySchedule_AttachesEntriesAndNotes joins the day's records onto each lesson.
func TestQueryGetDailySchedule_AttachesEntriesAndNotes(t *testing.T) {
	monday := day("2024-09-02")
	deps := dailyDeps(&mockSlotStore{slots: []timetable.Slot{
		{ID: "1", SubjectID: "math", DayOfWeek: 0, Period: 3},
		{ID: "2", SubjectID: "german", DayOfWeek: 0, Period: 1},
	}}, &mockWeekSystemStore{})
	deps.EntryStore = &mockEntryStore{entries: []entry.Entry{
		{ID: "e1", SubjectID: "math", EvaluationTypeID: "right", Date: monday},
		{ID: "e2", SubjectID: "math", EvaluationTypeID: "right", Date: monday},
		{ID: "e3", SubjectID: "math", EvaluationTypeID: "wrong", Date: day("2024-09-03")},
	}}
	deps.DayNoteStore = &mockDayNoteStore{notes: []daynote.DayNote{
		{ID: "n1", SubjectID: "math", Date: monday, Note: "**Bruchrechnung**\nSeite 12"},
		{ID: "n2", SubjectID: "german", Date: monday, Note: "   "},
	}}

	res, err := QueryGetDailySchedule(context.Background(), GetDailyScheduleQuery{Date: monday}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := lessonSubjects(res); got != "german@1./2.,math@3./4." {
		t.Fatalf("lessons = %q", got)
	}

	german, math := res.Lessons[0], res.Lessons[1]
	if len(german.Entries) != 0 || german.Entries == nil {
		t.Errorf("german entries = %#v, want empty slice", german.Entries)
	}
	if german.Note != nil {
		t.Error("blank note should be omitted")
	}
	if len(math.Entries) != 2 || math.EvalCounts["right"] != 2 {
		t.Errorf("math entries = %d, counts = %v", len(math.Entries), math.EvalCounts)
	}
	if math.Note == nil {
		t.Fatal("math note missing")
	}
	html := string(math.Note.HTML)
	if !strings.Contains(html, "<strong>Bruchrechnung</strong>") || !strings.Contains(html, "<br") {
		t.Errorf("rendered note = %q", html)
	}
}

// TestRenderMarkdown_EscapesRawHTML keeps script tags out of the output.
func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	out := string(RenderMarkdown("<script>alert(1)</script>"))
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML passed through: %q", out)
	}
}

// TestQueryGetDailySchedule_ReadOnly marks days before today.
func TestQueryGetDailySchedule_ReadOnly(t *testing.T) {
	tests := map[string]bool{
		"2024-09-02": true,  // Monday before fixedTime
		"2024-09-03": true,  // free day, still frozen
		"2024-09-04": false, // today
		"2024-09-09": false,
	}
	for date, want := range tests {
		res, err := QueryGetDailySchedule(context.Background(), GetDailyScheduleQuery{Date: day(date)}, dailyDeps(mondaySlots(), abWeekSystem()))
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		if res.ReadOnly != want {
			t.Errorf("%s: ReadOnly = %v, want %v", date, res.ReadOnly, want)
		}
	}
}
